// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stkit/internal/meta"
)

// LsCommandAction lists the files under the root directory.
func LsCommandAction(ctx context.Context, cmd *cli.Command) error {
	entries, err := GetStore(cmd).List()
	if err != nil {
		return err
	}

	rows := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, map[string]interface{}{
			"path":     e.Path,
			"size":     e.Size,
			"human":    humanize.IBytes(uint64(e.Size)), //nolint:gosec
			"age":      humanize.Time(e.ModTime),
			"modified": e.ModTime.UTC().Format(time.RFC3339),
		})
	}

	cols := []string{"path", "human", "age"}
	if cmd.Bool("long") {
		cols = []string{"path", "size", "human", "modified", "age"}
	}
	return Emit(cmd, rows, cols...)
}

// LsCommandBuilder constructs the cli.Command definition for "ls".
func LsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "ls",
		Usage:     "list files in the root directory",
		UsageText: "stkit ls [options]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "long",
				Aliases: []string{"l"},
				Usage:   "include exact size and modification time",
			},
		},
		Listing: true,
		Action:  LsCommandAction,
		Meta:    meta,
	}).Build()
}
