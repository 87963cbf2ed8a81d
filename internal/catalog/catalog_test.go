package catalog

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundgrip/internal/domain"
)

func TestDeriveName(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		decode Decoding
		want   string
	}{
		{"plain", "drums/Kick.mp3", DecodeSpaces, "Kick"},
		{"no directory", "Snare.wav", DecodeSpaces, "Snare"},
		{"percent twenty", "fx/Air%20Horn.mp3", DecodeSpaces, "Air Horn"},
		{"every percent twenty", "Big%20Air%20Horn.mp3", DecodeSpaces, "Big Air Horn"},
		{"other escapes kept", "Caf%C3%A9%20Beat.wav", DecodeSpaces, "Caf%C3%A9 Beat"},
		{"full decoding", "Caf%C3%A9%20Beat.wav", DecodeFull, "Café Beat"},
		{"full decoding bad escape falls back", "100%%20Loud.wav", DecodeFull, "100% Loud"},
		{"cut at first dot", "Kick.v2.final.mp3", DecodeSpaces, "Kick"},
		{"separator kept", "Kick - One.mp3", DecodeSpaces, "Kick - One"},
		{"backslashes", `drums\Hat.wav`, DecodeSpaces, "Hat"},
		{"empty path", "", DecodeSpaces, ""},
		{"trailing slash", "drums/", DecodeSpaces, "drums"},
		{"dot file", ".wav", DecodeSpaces, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveName(tt.path, tt.decode))
		})
	}
}

func TestHasExtension(t *testing.T) {
	exts := []string{".mp3", ".wav"}
	assert.True(t, HasExtension("a.mp3", exts))
	assert.True(t, HasExtension("a.WAV", exts))
	assert.False(t, HasExtension("a.ogg", exts))
	assert.False(t, HasExtension("mp3", exts))
}

func TestLoad_WalkOrderAndFiltering(t *testing.T) {
	fsys := fstest.MapFS{
		"b/Snare.mp3":        {Data: []byte("x")},
		"a/Kick.mp3":         {Data: []byte("x")},
		"a/notes.txt":        {Data: []byte("x")},
		"Hat.MP3":            {Data: []byte("x")},
		"c/Clap%20Loud.mp3":  {Data: []byte("x")},
		".hidden/Secret.mp3": {Data: []byte("x")},
		"a/.Kick.mp3":        {Data: []byte("x")},
		"d/Kick.mp3":         {Data: []byte("x")},
		"d/e/Kick - Two.wav": {Data: []byte("x")},
	}

	samples, err := Load(context.Background(), fsys, Options{Extensions: []string{".mp3"}})
	require.NoError(t, err)

	assert.Equal(t, []domain.Sample{
		{Name: "Hat", Src: "Hat.MP3"},
		{Name: "Kick", Src: "a/Kick.mp3"},
		{Name: "Snare", Src: "b/Snare.mp3"},
		{Name: "Clap Loud", Src: "c/Clap%20Loud.mp3"},
		{Name: "Kick", Src: "d/Kick.mp3"},
	}, samples)
}

func TestLoad_DuplicateNamesStayDistinct(t *testing.T) {
	fsys := fstest.MapFS{
		"one/Kick.wav": {Data: []byte("x")},
		"two/Kick.wav": {Data: []byte("x")},
	}

	samples, err := Load(context.Background(), fsys, Options{})
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, samples[0].Name, samples[1].Name)
	assert.NotEqual(t, samples[0].Src, samples[1].Src)
}

func TestLoad_SubRoot(t *testing.T) {
	fsys := fstest.MapFS{
		"kit/Kick.wav": {Data: []byte("x")},
		"Other.wav":    {Data: []byte("x")},
	}

	samples, err := Load(context.Background(), fsys, Options{Root: "kit"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Sample{{Name: "Kick", Src: "kit/Kick.wav"}}, samples)
}

func TestLoad_MissingRoot(t *testing.T) {
	_, err := Load(context.Background(), fstest.MapFS{}, Options{Root: "nowhere"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nowhere")
}

func TestLoad_EmptyIsNotAnError(t *testing.T) {
	samples, err := Load(context.Background(), fstest.MapFS{"readme.md": {Data: []byte("x")}}, Options{})
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, fstest.MapFS{"Kick.wav": {Data: []byte("x")}}, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuiltinSamples(t *testing.T) {
	samples, err := Load(context.Background(), Builtin(), Options{})
	require.NoError(t, err)

	names := make([]string, 0, len(samples))
	for _, s := range samples {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Air Horn - Long", "Hat", "Kick", "Snare"}, names)
}
