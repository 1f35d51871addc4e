// Command trackinfo prints the header fields of media tracks.
//
// Usage:
//
//	trackinfo [flags] <file> [file...]
//
// Elementary streams (MP3, FLAC, Ogg, WAVE) are read from the start of the
// file. MP4 and Matroska tracks need the offset of their trak atom or
// TrackEntry element:
//
//	trackinfo --offset 1234 movie.mp4
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonhull/mediatrack"
)

type config struct {
	container string
	offset    int64
	json      bool
	strict    bool
	verbose   bool
}

func newRootCmd() *cobra.Command {
	cfg := &config{offset: -1}

	root := &cobra.Command{
		Use:           "trackinfo [flags] <file> [file...]",
		Short:         "Print the header fields of media tracks.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&cfg.container, "container", "c", "", "container to parse as (mp3, flac, ogg, mp4, wav, mkv); detected when empty")
	flags.Int64VarP(&cfg.offset, "offset", "o", -1, "byte offset of the track header")
	flags.BoolVar(&cfg.json, "json", false, "print JSON instead of text")
	flags.BoolVar(&cfg.strict, "strict", false, "treat parse warnings as errors")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "log parse progress to stderr")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print trackinfo version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "trackinfo", mediatrack.GetVersionInfo())
			return nil
		},
		DisableFlagsInUseLine: true,
	})
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
