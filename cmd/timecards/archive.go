package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"jobtrack.com/jobtrack/config"
	"jobtrack.com/jobtrack/infrastructure/filesystem"
)

// ArchiveCmd reads back exports stored in the S3 archive.
func ArchiveCmd() *cobra.Command {
	var bucket string

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "List and download archived exports",
	}
	cmd.PersistentFlags().StringVar(&bucket, "bucket", "", "Archive bucket (defaults to ARCHIVE_BUCKET)")

	open := func(cmd *cobra.Command) (*filesystem.S3Archive, error) {
		if bucket == "" {
			cfg, err := config.Load()
			if err != nil {
				return nil, err
			}
			bucket = cfg.ArchiveBucket
		}
		if bucket == "" {
			return nil, fmt.Errorf("no archive bucket: pass --bucket or set ARCHIVE_BUCKET")
		}
		return filesystem.NewS3Archive(cmd.Context(), bucket)
	}

	list := &cobra.Command{
		Use:   "list [prefix]",
		Short: "List archived keys, e.g. timecards/acme/job-1/",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := open(cmd)
			if err != nil {
				return err
			}
			prefix := "timecards/"
			if len(args) == 1 {
				prefix = args[0]
			}
			keys, err := archive.ListFiles(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}

	var out string
	get := &cobra.Command{
		Use:   "get KEY",
		Short: "Download an archived export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := open(cmd)
			if err != nil {
				return err
			}
			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return archive.ReadFile(cmd.Context(), args[0], w)
		},
	}
	get.Flags().StringVar(&out, "out", "", "Write to this file instead of stdout")

	cmd.AddCommand(list, get)
	return cmd
}
