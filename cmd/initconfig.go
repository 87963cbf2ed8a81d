package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"soundgrip/internal/config"
)

var forceInit bool

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write a commented default config file",
	Long: `Write the default configuration with comments. Without a path the file
goes to the user config location; pass a sample directory to create a
.soundgrip.toml there instead.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runInitConfig,
}

func init() {
	initConfigCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing file")
	rootCmd.AddCommand(initConfigCmd)
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, config.ProjectFileName)
		}
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	svc := config.NewConfigService(config.WithPath(path))
	if err := svc.Save(config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
