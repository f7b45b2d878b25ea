package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/whisperdb/whisper"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Dump a whisper file's metadata, archive table, and every point",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	var h whisper.Handle
	if err := h.Open(path, whisper.MappingMmap); err != nil {
		fmt.Printf("%s: %s\n", err.Error(), path)
		os.Exit(1)
	}
	defer h.Close()

	logger.Debugw("opened whisper file", "path", path)

	meta := h.Metadata()
	fmt.Printf("aggregation_type = %d\n", uint32(meta.Aggregation))
	fmt.Printf("max_retention = %d\n", meta.MaxRetention)
	fmt.Printf("xff = %f\n", meta.XFilesFactor)
	fmt.Printf("archives_count = %d\n", meta.ArchiveCount)

	for i, archive := range h.Archives() {
		fmt.Printf("Archive #%d info:\n", i)
		fmt.Printf("  offset = %d\n", archive.Offset)
		fmt.Printf("  seconds_per_point = %d\n", archive.SecondsPerPoint)
		fmt.Printf("  points = %d\n", archive.PointsCount)
		fmt.Printf("  points_size = %d\n", archive.Size())

		points, err := h.LoadAllPoints(archive)
		if err != nil {
			fmt.Printf("%s: %s\n", err.Error(), path)
			os.Exit(1)
		}

		fmt.Printf("Archive #%d data:\n", i)
		for j, p := range points {
			fmt.Printf("%d: %d, %.4f\n", j, p.Timestamp, p.Value)
		}
	}

	return nil
}
