package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/goccy/go-json"

	"github.com/simonhull/mediatrack"
)

// report is the JSON form of one track.
type report struct {
	Path      string   `json:"path"`
	Container string   `json:"container"`
	Offset    int64    `json:"offset"`
	ID        uint64   `json:"id"`
	Type      string   `json:"type"`
	Label     string   `json:"label"`
	Format    string   `json:"format,omitempty"`
	Codec     string   `json:"codec,omitempty"`
	Name      string   `json:"name,omitempty"`
	Language  string   `json:"language,omitempty"`
	Duration  string   `json:"duration,omitempty"`
	Bitrate   float64  `json:"bitrate_kbps,omitempty"`
	MaxRate   float64  `json:"max_bitrate_kbps,omitempty"`
	Rate      uint32   `json:"sample_rate,omitempty"`
	Channels  uint16   `json:"channels,omitempty"`
	Bits      uint16   `json:"bits_per_sample,omitempty"`
	Samples   uint64   `json:"sample_count,omitempty"`
	Width     uint32   `json:"width,omitempty"`
	Height    uint32   `json:"height,omitempty"`
	FrameRate float64  `json:"frame_rate,omitempty"`
	Enabled   bool     `json:"enabled"`
	Default   bool     `json:"default"`
	Encrypted bool     `json:"encrypted,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func newReport(path string, track *mediatrack.Track) report {
	m := track.Metadata()
	rep := report{
		Path:      path,
		Container: track.Container().String(),
		Offset:    track.StartOffset(),
		ID:        m.ID,
		Type:      m.MediaTypeName(),
		Label:     m.Label(),
		Format:    m.FormatName(),
		Codec:     m.FormatAbbreviation(),
		Name:      m.Name,
		Language:  m.Language,
		Bitrate:   m.Bitrate,
		MaxRate:   m.MaxBitrate,
		Rate:      m.SampleRate,
		Channels:  m.ChannelCount,
		Bits:      m.BitsPerSample,
		Samples:   m.SampleCount,
		Width:     m.Width,
		Height:    m.Height,
		FrameRate: m.FrameRate,
		Enabled:   m.Enabled,
		Default:   m.Default,
		Encrypted: m.Encrypted,
	}
	if m.Duration > 0 {
		rep.Duration = m.Duration.Round(time.Millisecond).String()
	}
	for _, w := range m.Warnings {
		rep.Warnings = append(rep.Warnings, w.String())
	}
	return rep
}

func (c *config) options() ([]mediatrack.Option, error) {
	var opts []mediatrack.Option
	if c.container != "" {
		container := mediatrack.ParseContainer(c.container)
		if container == mediatrack.ContainerUnknown {
			return nil, fmt.Errorf("unknown container %q", c.container)
		}
		opts = append(opts, mediatrack.WithContainer(container))
	}
	if c.offset >= 0 {
		opts = append(opts, mediatrack.WithStartOffset(c.offset))
	}
	if c.strict {
		opts = append(opts, mediatrack.WithStrictParsing())
	}
	return opts, nil
}

func (c *config) logger(stderr io.Writer) *slog.Logger {
	if !c.verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// run reports every path and returns an error if any of them failed.
// Failures are reported in line so the remaining paths are still printed.
func run(stdout, stderr io.Writer, cfg *config, paths []string) error {
	opts, err := cfg.options()
	if err != nil {
		return err
	}
	logger := cfg.logger(stderr)
	opts = append(opts, mediatrack.WithLogger(logger))

	var (
		reports []report
		failed  int
	)
	for _, path := range paths {
		track, err := mediatrack.Open(path, opts...)
		if err != nil {
			failed++
			logger.Error("open track", "path", path, "kind", mediatrack.KindOf(err).String(), "error", err)
			reports = append(reports, report{Path: path, Error: err.Error()})
			continue
		}
		reports = append(reports, newReport(path, track))
		track.Close()
	}

	if cfg.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	} else {
		for i, rep := range reports {
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			writeText(stdout, rep)
		}
	}

	if failed > 0 {
		return errors.New(pluralize(failed, "track") + " failed to parse")
	}
	return nil
}

func writeText(w io.Writer, rep report) {
	fmt.Fprintln(w, rep.Path)
	if rep.Error != "" {
		fmt.Fprintf(w, "  error:       %s\n", rep.Error)
		return
	}
	fmt.Fprintf(w, "  %s\n", rep.Label)
	fmt.Fprintf(w, "  container:   %s (offset %d)\n", rep.Container, rep.Offset)
	if rep.Format != "" {
		fmt.Fprintf(w, "  format:      %s (%s)\n", rep.Format, rep.Codec)
	}
	if rep.Duration != "" {
		fmt.Fprintf(w, "  duration:    %s\n", rep.Duration)
	}
	if rep.Bitrate > 0 {
		fmt.Fprintf(w, "  bitrate:     %.0f kbps\n", rep.Bitrate)
	}
	if rep.Rate > 0 {
		fmt.Fprintf(w, "  sample rate: %d Hz\n", rep.Rate)
	}
	if rep.Channels > 0 {
		fmt.Fprintf(w, "  channels:    %d\n", rep.Channels)
	}
	if rep.Width > 0 && rep.Height > 0 {
		fmt.Fprintf(w, "  size:        %dx%d\n", rep.Width, rep.Height)
	}
	if rep.FrameRate > 0 {
		fmt.Fprintf(w, "  frame rate:  %g fps\n", rep.FrameRate)
	}
	for _, warning := range rep.Warnings {
		fmt.Fprintf(w, "  warning:     %s\n", warning)
	}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
