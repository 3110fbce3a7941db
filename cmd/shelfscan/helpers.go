package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shelfscan/internal/config"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resolveVideoArg expands and validates a video path argument.
func resolveVideoArg(arg string) (string, error) {
	path, err := config.ExpandPath(arg)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("inspect video %q: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("video path %q is a directory", path)
	}
	return path, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
