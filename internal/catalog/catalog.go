// Package catalog discovers audio samples in a filesystem and derives their
// display names.
package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"soundgrip/assets"
	"soundgrip/internal/domain"
	"soundgrip/internal/log"
	"soundgrip/internal/tracing"
)

// Decoding selects how percent escapes in file names are turned into labels.
type Decoding string

const (
	DecodeSpaces Decoding = "spaces"
	DecodeFull   Decoding = "full"
)

// DefaultExtensions are the sample file types recognised without configuration.
var DefaultExtensions = []string{".mp3", ".wav"}

// Options controls a catalog scan
type Options struct {
	Root       string   // directory inside the filesystem to walk, "." when empty
	Extensions []string // lower-case with leading dot; DefaultExtensions when empty
	Decode     Decoding
}

// Builtin returns the filesystem holding the embedded sample set.
func Builtin() fs.FS {
	return assets.Samples()
}

// Load walks fsys and returns every sample whose extension matches, in walk
// order (lexical by path). Hidden files and directories are skipped. Entries
// that cannot be read are logged and skipped; only an unreadable root fails.
func Load(ctx context.Context, fsys fs.FS, opts Options) ([]domain.Sample, error) {
	_, span := tracing.Tracer("catalog").Start(ctx, "catalog.Load")
	defer span.End()

	root := opts.Root
	if root == "" {
		root = "."
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	if _, err := fs.Stat(fsys, root); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("reading sample root %s: %w", root, err)
	}

	var samples []domain.Sample
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			log.Warn(log.CatCatalog, "skipping unreadable entry", "path", p, "error", err)
			if d != nil && d.IsDir() && p != root {
				return fs.SkipDir
			}
			return nil
		}

		name := d.Name()
		if p != root && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if t := d.Type(); !t.IsRegular() && t&fs.ModeSymlink == 0 {
			return nil
		}
		if !HasExtension(name, exts) {
			return nil
		}

		samples = append(samples, domain.Sample{
			Name: DeriveName(p, opts.Decode),
			Src:  p,
		})
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("scanning samples in %s: %w", root, err)
	}

	span.SetAttributes(attribute.Int("catalog.samples", len(samples)))
	log.Info(log.CatCatalog, "catalog loaded", "root", root, "samples", len(samples))
	return samples, nil
}

// HasExtension reports whether name ends in one of exts, ignoring case.
func HasExtension(name string, exts []string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// DeriveName turns a sample path into its label: the base name up to the
// first dot, with %20 replaced by spaces. With DecodeFull every percent
// escape is decoded; names with invalid escapes fall back to %20 handling.
// A path without a usable base name yields "".
func DeriveName(p string, decode Decoding) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	name, _, _ := strings.Cut(base, ".")

	if decode == DecodeFull {
		if decoded, err := url.PathUnescape(name); err == nil {
			return decoded
		}
	}
	return strings.ReplaceAll(name, "%20", " ")
}
