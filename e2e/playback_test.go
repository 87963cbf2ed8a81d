//go:build e2e && unix

package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func startDrumKit(t *testing.T) *TUITestFramework {
	t.Helper()
	tf := NewTUITest(t)
	t.Cleanup(tf.Cleanup)

	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err)
	require.NoError(t, tf.CreateDrumKit())
	require.NoError(t, tf.StartApp("--backend", "null", "--no-watch", "-d", workspace))
	require.True(t, tf.Ready(), "Should show soundgrip title")
	require.True(t, tf.SeePlain("Nothing playing"), "Should start idle")
	return tf
}

func TestArrowsStepThroughSamples(t *testing.T) {
	t.Parallel()
	tf := startDrumKit(t)

	tf.Mark()
	require.NoError(t, tf.Next())
	if !tf.SeeSinceMark("▶ Hat") {
		tf.DumpTailOnFail(t, "arrow-right", 4096)
		t.Fatal("first → should play the first card")
	}

	tf.Mark()
	require.NoError(t, tf.Next())
	require.True(t, tf.SeeSinceMark("▶ Kick"), "second → plays the next card")

	tf.Mark()
	require.NoError(t, tf.Prev())
	require.True(t, tf.SeeSinceMark("▶ Hat"), "← goes back")

	tf.Mark()
	require.NoError(t, tf.Prev())
	require.True(t, tf.SeeSinceMark("▶ Snare"), "← from the first card wraps to the last")
}

func TestFilterKeepsPlayingCardVisible(t *testing.T) {
	t.Parallel()
	tf := startDrumKit(t)

	tf.Mark()
	require.NoError(t, tf.Filter("zzz"))
	require.True(t, tf.SeeSinceMark(`No samples match "zzz"`))

	// arrows step through the whole catalog, not just the matches
	tf.Mark()
	require.NoError(t, tf.Next())
	if !tf.SeeSinceMark("▶ Hat") {
		tf.DumpTailOnFail(t, "filter-arrow", 4096)
		t.Fatal("→ should play the first sample while filtering")
	}

	tf.Mark()
	require.NoError(t, tf.Escape())
	require.True(t, tf.SeeSinceMark("Snare"), "esc clears the filter")
}

func TestHelpPager(t *testing.T) {
	t.Parallel()
	tf := startDrumKit(t)

	tf.Mark()
	require.NoError(t, tf.SendKeys(KeyHelp))
	if !tf.SeeSinceMark("Playback") {
		tf.DumpTailOnFail(t, "help-pager", 4096)
		t.Fatal("? should open the help pager")
	}

	tf.Mark()
	require.NoError(t, tf.SendKeys(KeyQuit))
	require.True(t, tf.SeeSinceMark("Nothing playing"), "pager returns to the board")
}
