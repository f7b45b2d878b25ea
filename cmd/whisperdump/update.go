package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/whisperdb/whisper"
)

var updateCmd = &cobra.Command{
	Use:   "update <file> <timestamp> <value>",
	Short: "Write one observation into a whisper file, propagating aggregates",
	Args:  cobra.ExactArgs(3),
	RunE:  runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	path := args[0]

	ts, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", args[1], err)
	}
	value, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("parse value %q: %w", args[2], err)
	}

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

	point := whisper.Point{Timestamp: uint32(ts), Value: value}
	if err := h.Update(point); err != nil {
		fmt.Printf("%s: %s\n", err.Error(), path)
		os.Exit(1)
	}
	if err := h.Sync(); err != nil {
		fmt.Printf("%s: %s\n", err.Error(), path)
		os.Exit(1)
	}

	logger.Infow("updated point", "timestamp", point.Timestamp, "value", point.Value)
	fmt.Printf("updated %d %.4f\n", point.Timestamp, point.Value)
	return nil
}
