// Package probe reads sample metadata (length, rate, channels) without
// playing anything. Results are cached per source path.
package probe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/patrickmn/go-cache"

	"soundgrip/internal/audio"
	"soundgrip/internal/log"
)

// ErrInvalidWav is returned for files with a .wav extension that do not
// carry a RIFF/WAVE header.
var ErrInvalidWav = errors.New("invalid wav file")

// Info describes a decoded sample.
type Info struct {
	Duration   time.Duration
	SampleRate int
	Channels   int
}

// Prober reads sample metadata from a filesystem.
type Prober struct {
	fsys  fs.FS
	cache *cache.Cache
}

// New creates a prober over fsys. Entries expire after ttl; zero keeps them
// until Forget is called.
func New(fsys fs.FS, ttl time.Duration) *Prober {
	exp := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		exp = ttl
		cleanup = 2 * ttl
	}
	return &Prober{fsys: fsys, cache: cache.New(exp, cleanup)}
}

// Probe returns metadata for src.
func (p *Prober) Probe(src string) (Info, error) {
	if v, ok := p.cache.Get(src); ok {
		return v.(Info), nil
	}

	info, err := p.read(src)
	if err != nil {
		return Info{}, err
	}
	p.cache.Set(src, info, cache.DefaultExpiration)
	return info, nil
}

// Durations probes every src and skips the ones that fail.
func (p *Prober) Durations(srcs []string) map[string]time.Duration {
	out := make(map[string]time.Duration, len(srcs))
	for _, src := range srcs {
		info, err := p.Probe(src)
		if err != nil {
			log.Debug(log.CatAudio, "probe failed", "src", src, "error", err)
			continue
		}
		out[src] = info.Duration
	}
	return out
}

// Forget drops cached entries for the given sources, or all of them when
// none are given.
func (p *Prober) Forget(srcs ...string) {
	if len(srcs) == 0 {
		p.cache.Flush()
		return
	}
	for _, src := range srcs {
		p.cache.Delete(src)
	}
}

func (p *Prober) read(src string) (Info, error) {
	f, err := p.fsys.Open(src)
	if err != nil {
		return Info{}, fmt.Errorf("opening %s: %w", src, err)
	}

	if strings.EqualFold(path.Ext(src), ".wav") {
		defer f.Close()
		return readWav(src, f)
	}

	// audio.Decode owns f from here.
	stream, format, err := audio.Decode(src, f)
	if err != nil {
		_ = f.Close()
		return Info{}, err
	}
	defer stream.Close()

	return Info{
		Duration:   format.SampleRate.D(stream.Len()),
		SampleRate: int(format.SampleRate),
		Channels:   format.NumChannels,
	}, nil
}

func readWav(src string, f fs.File) (Info, error) {
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			return Info{}, fmt.Errorf("reading %s: %w", src, err)
		}
		rs = bytes.NewReader(data)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return Info{}, fmt.Errorf("%w: %s", ErrInvalidWav, src)
	}
	if err := dec.FwdToPCM(); err != nil {
		return Info{}, fmt.Errorf("reading %s: %w", src, err)
	}
	bytesPerSec := int64(dec.SampleRate) * int64(dec.NumChans) * int64(dec.BitDepth) / 8
	if bytesPerSec == 0 {
		return Info{}, fmt.Errorf("%w: %s", ErrInvalidWav, src)
	}
	return Info{
		Duration:   time.Duration(dec.PCMLen() * int64(time.Second) / bytesPerSec),
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}, nil
}
