package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/whisperdb/whisper"
)

var archivesCmd = &cobra.Command{
	Use:   "archives <file>",
	Short: "Print a whisper file's archive table without decoding point bodies",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchives,
}

func runArchives(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	var h whisper.Handle
	if err := h.Open(path, whisper.MappingFile); err != nil {
		fmt.Printf("%s: %s\n", err.Error(), path)
		os.Exit(1)
	}
	defer h.Close()

	for i, archive := range h.Archives() {
		fmt.Printf("#%d offset=%d spp=%d points=%d retention=%ds\n",
			i, archive.Offset, archive.SecondsPerPoint, archive.PointsCount, archive.Retention())
	}
	return nil
}
