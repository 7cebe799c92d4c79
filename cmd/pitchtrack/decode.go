package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	errNotWAV         = errors.New("not a valid WAV file")
	errNoAudio        = errors.New("no audio data")
	errUnsupportedPCM = errors.New("unsupported PCM format")
)

// clip is a decoded WAV file downmixed to mono and scaled to [-1, 1].
type clip struct {
	samples    []float32
	sampleRate int
	channels   int
	bitDepth   int
}

func readWAV(r io.ReadSeeker) (clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return clip{}, errNotWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return clip{}, fmt.Errorf("decode: %w", err)
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return clip{}, errNoAudio
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}
	if bitDepth < 8 || bitDepth > 32 {
		return clip{}, fmt.Errorf("%w: %d-bit", errUnsupportedPCM, bitDepth)
	}

	return clip{
		samples:    downmix(buf, bitDepth),
		sampleRate: buf.Format.SampleRate,
		channels:   buf.Format.NumChannels,
		bitDepth:   bitDepth,
	}, nil
}

// downmix averages interleaved channels into one and normalizes integer
// PCM of the given bit depth to [-1, 1]. 8-bit WAV data is unsigned.
func downmix(buf *audio.IntBuffer, bitDepth int) []float32 {
	channels := max(buf.Format.NumChannels, 1)
	frames := len(buf.Data) / channels

	offset := 0.0
	if bitDepth == 8 {
		offset = 128
	}
	scale := 1 / (float64(int64(1)<<(bitDepth-1)) * float64(channels))

	out := make([]float32, frames)
	for i := range out {
		var sum float64
		for ch := range channels {
			sum += float64(buf.Data[i*channels+ch]) - offset
		}
		out[i] = float32(sum * scale)
	}
	return out
}
