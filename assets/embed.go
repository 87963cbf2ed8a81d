// Package assets holds the sample set compiled into the binary. It is the
// catalog used when no assets directory is configured.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed samples/*.wav
var samples embed.FS

// Samples returns the embedded samples rooted at the samples directory.
func Samples() fs.FS {
	sub, err := fs.Sub(samples, "samples")
	if err != nil {
		panic(err) // the directory is part of the binary
	}
	return sub
}
