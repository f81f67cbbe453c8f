// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stkit/internal/meta"
)

// PurgeCommandAction removes files older than --hours from the root directory
// and lists what was removed.
func PurgeCommandAction(ctx context.Context, cmd *cli.Command) error {
	removed, err := GetStore(cmd).Purge(cmd.Int("hours"))
	if err != nil {
		return err
	}

	rows := make([]map[string]interface{}, 0, len(removed))
	for _, p := range removed {
		rows = append(rows, map[string]interface{}{"path": p})
	}
	return Emit(cmd, rows, "path")
}

// PurgeCommandBuilder constructs the cli.Command definition for "purge".
func PurgeCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "purge",
		Usage:     "delete old files from the root directory",
		UsageText: "stkit purge [--hours N] [options]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "hours",
				Aliases: []string{"H"},
				Usage:   "remove files older than this many hours; 0 disables",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("STKIT_PURGE_HOURS"),
					yaml.YAML("purge.hours", altsrc.StringSourcer(meta.Config.Source)),
				),
				Validator: func(v int) error {
					return FlagValidators(v, NonNegativeValidator)
				},
			},
		},
		Listing: true,
		Action:  PurgeCommandAction,
		Meta:    meta,
	}).Build()
}
