package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"git.weirdcat.su/weirdcat/valuegen/internal/logger"
)

// options are the flags shared by every command
type options struct {
	configPath string
	dir        string
	verbose    bool
	debug      bool
	noColor    bool
	workers    int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "valuegen",
		Short: "Generate row, preference and parcel code for Go value types",
		Long: `valuegen reads structs annotated with valuegen struct tags and
//valuegen: directives and writes, next to them, factories that build the
value from a database row or a preference store, serializers that write it
back, and parcel marshaling.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applyLogging(opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: valuegen.json or valuegen.yaml in each package)")
	flags.StringVarP(&opts.dir, "dir", "C", ".", "directory patterns are resolved against")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&opts.debug, "debug", false, "debug output")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.IntVar(&opts.workers, "workers", 0, "packages processed concurrently (default from config)")

	rootCmd.AddCommand(newGenerateCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))

	return rootCmd
}

func applyLogging(opts *options) {
	switch {
	case opts.debug:
		logger.SetLevel(logger.LogLevelDebug)
	case opts.verbose:
		logger.SetLevel(logger.LogLevelVerbose)
	default:
		logger.SetLevel(logger.LogLevelNormal)
	}
	if opts.noColor {
		logger.SetColors(false)
	}
}
