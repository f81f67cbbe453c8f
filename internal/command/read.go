// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/staranto/stkit/internal/meta"
)

// ReadCommandAction copies a file under the root directory to stdout.
func ReadCommandAction(ctx context.Context, cmd *cli.Command) error {
	args, err := RequireArgs(cmd, "PATH")
	if err != nil {
		return err
	}

	w := Stdout(cmd)
	return GetStore(cmd).Read(args[0], func(r io.Reader) error {
		_, err := io.Copy(w, r)
		return err
	})
}

// ReadCommandBuilder constructs the cli.Command definition for "read".
func ReadCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "read",
		Usage:     "print a file from the root directory",
		UsageText: "stkit read PATH",
		Action:    ReadCommandAction,
		Meta:      meta,
	}).Build()
}
