// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/stkit/internal/meta"
	"github.com/staranto/stkit/internal/reportid"
)

// ReportIDCommandAction prints new report IDs, or with --decode the UUID
// behind an existing one.
func ReportIDCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := Stdout(cmd)

	if s := cmd.String("decode"); s != "" {
		id, err := reportid.Decode(s)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, id.String())
		return err
	}

	for range cmd.Int("count") {
		id, err := reportid.New()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}

// ReportIDCommandBuilder constructs the cli.Command definition for "reportid".
func ReportIDCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "reportid",
		Usage:     "generate report IDs",
		UsageText: "stkit reportid [--count N] [--decode ID]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "number of IDs to generate",
				Value:   1,
				Validator: func(v int) error {
					return FlagValidators(v, NonNegativeValidator)
				},
			},
			&cli.StringFlag{
				Name:  "decode",
				Usage: "print the UUID encoded in this report ID",
			},
		},
		Action: ReportIDCommandAction,
		Meta:   meta,
	}).Build()
}
