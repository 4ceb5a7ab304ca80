package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobtrack.com/jobtrack/logging"
)

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "timecards",
		Short:         "Render timecard exports and inspect the export archive",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(ExportCmd())
	root.AddCommand(FilenameCmd())
	root.AddCommand(ArchiveCmd())
	return root
}

func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"))

	if err := newRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
