package mediatrack

// Track variants register themselves with the registry.
import (
	_ "github.com/simonhull/mediatrack/internal/flac"
	_ "github.com/simonhull/mediatrack/internal/matroska"
	_ "github.com/simonhull/mediatrack/internal/mp4"
	_ "github.com/simonhull/mediatrack/internal/mpeg"
	_ "github.com/simonhull/mediatrack/internal/ogg"
	_ "github.com/simonhull/mediatrack/internal/wave"
)
