package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("shapecsv")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose int
	var logPath string
	flags := &readerFlags{}

	rootCmd := &cobra.Command{
		Use:          "shapecsv",
		Short:        "Event-driven CSV parser and checker",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logPath != "" {
				commonlog.Configure(verbose, &logPath)
			} else {
				commonlog.Configure(verbose, nil)
			}
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "log to this file instead of stderr")
	flags.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newCheckCmd(flags))
	rootCmd.AddCommand(newEventsCmd(flags))
	rootCmd.AddCommand(newTableCmd(flags))
	rootCmd.AddCommand(newLSPCmd(flags))

	return rootCmd
}
