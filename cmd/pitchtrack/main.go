// Command pitchtrack replays a WAV file through the streaming pitch detector
// and prints every confident pitch it reports.
//
// Usage:
//
//	pitchtrack [flags] file.wav
//
// The file is fed to the detector one chunk at a time, the way an audio
// callback would deliver it, so the output matches what a live stream of the
// same samples would produce.
//
// Examples:
//
//	pitchtrack voice.wav
//	pitchtrack --estimator autocorrelation --window 1024 voice.wav
//	pitchtrack --taper hann --clarity 0.8 --summary guitar.wav
//	pitchtrack --log-level debug voice.wav
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-pitch/dsp/buffer"
	"github.com/cwbudde/algo-pitch/dsp/pitch"
	"github.com/cwbudde/algo-pitch/dsp/window"
)

type options struct {
	windowSize int
	chunkSize  int
	estimator  pitch.Kind
	taper      window.Type
	power      float32
	clarity    float32
	summary    bool
}

func main() {
	opts := options{
		estimator: pitch.KindMcLeod,
		taper:     window.TypeRectangular,
	}
	logLevel := levelFlag{level: slog.LevelInfo}

	pflag.IntVar(&opts.windowSize, "window", 2048, "analysis window length in samples")
	pflag.IntVar(&opts.chunkSize, "chunk", buffer.DefaultChunkSize, "samples delivered per push")
	pflag.Var(&opts.estimator, "estimator", "pitch estimator: autocorrelation, mcleod or smoothed-mcleod")
	pflag.Var(&opts.taper, "taper", "taper applied to each window: rectangular, hann, hamming or blackman")
	pflag.Float32Var(&opts.power, "power", pitch.DefaultPowerThreshold, "minimum window power (sum of squares)")
	pflag.Float32Var(&opts.clarity, "clarity", pitch.DefaultClarityThreshold, "minimum clarity of a reported pitch")
	pflag.Var(&logLevel, "log-level", "log level: debug, info, warn or error")
	pflag.BoolVar(&opts.summary, "summary", false, "print summary statistics after the table")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pitchtrack [flags] file.wav\n\n")
		fmt.Fprintf(os.Stderr, "Replays a WAV file through the streaming pitch detector.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pitchtrack voice.wav\n")
		fmt.Fprintf(os.Stderr, "  pitchtrack --estimator autocorrelation --window 1024 voice.wav\n")
		fmt.Fprintf(os.Stderr, "  pitchtrack --taper hann --summary guitar.wav\n")
	}
	pflag.Parse()

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel.level}))

	if err := run(pflag.Arg(0), opts, logger); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, opts options, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	clip, err := readWAV(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("decoded",
		"file", path,
		"sample_rate", clip.sampleRate,
		"channels", clip.channels,
		"bit_depth", clip.bitDepth,
		"duration", pitch.SamplesToDuration(len(clip.samples), clip.sampleRate),
	)

	pitches, err := track(clip.samples, clip.sampleRate, opts, logger)
	if err != nil {
		return err
	}

	if err := printTable(os.Stdout, pitches, clip.sampleRate); err != nil {
		return err
	}
	if opts.summary {
		return printSummary(os.Stdout, summarize(pitches))
	}
	return nil
}

// levelFlag adapts slog.Level to pflag.Value.
type levelFlag struct {
	level slog.Level
}

func (l *levelFlag) String() string { return l.level.String() }

func (l *levelFlag) Set(s string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return errors.New("unknown log level " + s)
	}
	l.level = level
	return nil
}

func (l *levelFlag) Type() string { return "level" }
