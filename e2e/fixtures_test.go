//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// samplesDir holds the WAV files the binary embeds
const samplesDir = "../assets/samples"

// CreateTestWorkspace creates a temporary directory used as $HOME and as the
// sample directory
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	ws, err := os.MkdirTemp("", "soundgrip-e2e-*")
	if err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}
	tf.workspace = ws
	return ws, nil
}

// AddSample copies one of the bundled samples into the workspace under name
func (tf *TUITestFramework) AddSample(from, name string) error {
	tf.t.Helper()
	if tf.workspace == "" {
		return fmt.Errorf("workspace not created")
	}
	data, err := os.ReadFile(filepath.Join(samplesDir, from))
	if err != nil {
		return fmt.Errorf("read %s: %w", from, err)
	}
	return os.WriteFile(filepath.Join(tf.workspace, name), data, 0o644)
}

// CreateDrumKit fills the workspace with Kick, Snare and Hat. The catalog
// lists them lexically: Hat, Kick, Snare.
func (tf *TUITestFramework) CreateDrumKit() error {
	tf.t.Helper()
	for _, name := range []string{"Kick.wav", "Snare.wav", "Hat.wav"} {
		if err := tf.AddSample(name, name); err != nil {
			return err
		}
	}
	return nil
}
