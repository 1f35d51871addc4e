package mediatrack

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Open opens a media file and parses the header of its track.
//
// The container is detected from the file signature unless WithContainer
// is given. Elementary containers (MPEG audio, FLAC, Ogg, WAVE) are parsed
// from offset 0; MP4 and Matroska files need WithStartOffset pointing at
// the track, since enumerating their track tables is left to the caller.
//
// The returned track owns the file; call Close when done:
//
//	track, err := mediatrack.Open("song.flac")
//	if err != nil {
//		return err
//	}
//	defer track.Close()
//	fmt.Println(track.Label(), track.FormatName(), track.Duration())
func Open(path string, opts ...Option) (*Track, error) {
	o := applyOptions(opts)
	if o.path == "" {
		o.path = path
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	track, err := openFile(f, o)
	if err != nil {
		f.Close()
		return nil, err
	}
	track.closer = f
	return track, nil
}

func openFile(f *os.File, o *options) (*Track, error) {
	container := o.container
	if container == ContainerUnknown {
		var err error
		if container, err = DetectContainer(f, o.path); err != nil {
			return nil, err
		}
	}
	if !container.IsElementary() && !o.hasStartOffset {
		return nil, &UnsupportedFormatError{
			Path:   o.path,
			Reason: fmt.Sprintf("%s tracks need an explicit start offset", container),
		}
	}

	track, err := newTrack(container, f, o.startOffset, o)
	if err != nil {
		return nil, err
	}
	if err := track.ParseHeader(); err != nil {
		return nil, fmt.Errorf("parse %s track: %w", container, err)
	}
	return track, nil
}

// OpenContext is Open with a check for cancellation before the file is
// opened. A single header parse is short and is not interrupted.
func OpenContext(ctx context.Context, path string, opts ...Option) (*Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(path, opts...)
}

// OpenMany opens multiple files concurrently, each with its own stream.
//
// Files are parsed in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths.
//
// If any file fails to open, all successfully opened tracks are closed
// and an error is returned.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	tracks, err := mediatrack.OpenMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() {
//		for _, t := range tracks {
//			t.Close()
//		}
//	}()
func OpenMany(ctx context.Context, paths ...string) ([]*Track, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*Track, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			track, err := OpenContext(ctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = track
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, track := range results {
			if track != nil {
				track.Close()
			}
		}
		return nil, err
	}

	return results, nil
}
