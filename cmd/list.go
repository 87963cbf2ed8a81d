package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"soundgrip/internal/catalog"
	"soundgrip/internal/domain"
	"soundgrip/internal/probe"
	"soundgrip/internal/ui/logic"
	"soundgrip/internal/ui/views"
)

var listDurations bool

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "Print the sample catalog",
	Long:  `Print every sample soundgrip would show, in catalog order, with its label, length, and source path.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listDurations, "durations", true, "probe and print sample lengths")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	fsys, source := catalogSource(cfg)
	samples, err := catalog.Load(cmd.Context(), fsys, catalogOptions(cfg))
	if err != nil {
		return fmt.Errorf("loading samples: %w", err)
	}

	var durations map[string]time.Duration
	if listDurations {
		srcs := make([]string, len(samples))
		for i, s := range samples {
			srcs[i] = s.Src
		}
		durations = probe.New(fsys, 0).Durations(srcs)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d samples in %s\n\n", len(samples), source)
	if len(samples) > 0 {
		printCatalog(out, samples, durations)
	}
	return nil
}

// printCatalog writes an aligned table of samples. Columns are padded by
// display width so wide labels line up.
func printCatalog(w io.Writer, samples []domain.Sample, durations map[string]time.Duration) {
	output := termenv.NewOutput(w)

	rows := make([][4]string, 0, len(samples))
	for i, s := range samples {
		length := "-"
		if d, ok := durations[s.Src]; ok {
			length = views.FormatDuration(d)
		}
		rows = append(rows, [4]string{fmt.Sprintf("%d", i+1), logic.DisplayName(s.Name), length, s.Src})
	}

	header := [4]string{"#", "LABEL", "LENGTH", "SOURCE"}
	widths := [4]int{}
	for col := range header {
		widths[col] = runewidth.StringWidth(header[col])
		for _, row := range rows {
			if cw := runewidth.StringWidth(row[col]); cw > widths[col] {
				widths[col] = cw
			}
		}
	}

	line := func(cells [4]string) string {
		return runewidth.FillLeft(cells[0], widths[0]) + "  " +
			runewidth.FillRight(cells[1], widths[1]) + "  " +
			runewidth.FillLeft(cells[2], widths[2]) + "  " +
			cells[3]
	}

	fmt.Fprintln(w, output.String(line(header)).Bold().String())
	for _, row := range rows {
		fmt.Fprintln(w, line(row))
	}
}
