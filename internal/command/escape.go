// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/stkit/internal/meta"
	"github.com/staranto/stkit/internal/textutil"
)

// EscapeCommandAction markdown escapes its arguments, or stdin when there are
// none.
func EscapeCommandAction(ctx context.Context, cmd *cli.Command) error {
	var raw string
	if cmd.Args().Present() {
		raw = strings.Join(cmd.Args().Slice(), " ")
	} else {
		b, err := io.ReadAll(Stdin(cmd))
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		raw = strings.TrimSuffix(string(b), "\n")
	}

	for range cmd.Int("times") {
		raw = textutil.EscapeMarkdown(raw)
	}

	_, err := fmt.Fprintln(Stdout(cmd), raw)
	return err
}

// EscapeCommandBuilder constructs the cli.Command definition for "escape".
func EscapeCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "escape",
		Usage:     "escape markdown metacharacters",
		UsageText: "stkit escape [TEXT...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "times",
				Aliases: []string{"n"},
				Usage:   "apply the escaping this many times",
				Value:   1,
				Validator: func(v int) error {
					return FlagValidators(v, NonNegativeValidator)
				},
			},
		},
		Action: EscapeCommandAction,
		Meta:   meta,
	}).Build()
}
