// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"io"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stkit/internal/meta"
)

// WriteCommandAction replaces a file under the root directory with --data or,
// when --data is not given, with stdin.
func WriteCommandAction(ctx context.Context, cmd *cli.Command) error {
	args, err := RequireArgs(cmd, "PATH")
	if err != nil {
		return err
	}

	store := GetStore(cmd)
	if cmd.IsSet("data") {
		return store.WriteFile(args[0], []byte(cmd.String("data")))
	}

	in := Stdin(cmd)
	return store.Write(args[0], func(w io.Writer) error {
		n, err := io.Copy(w, in)
		log.Debugf("wrote %d bytes to %s", n, args[0])
		return err
	})
}

// WriteCommandBuilder constructs the cli.Command definition for "write".
func WriteCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "write",
		Usage:     "write stdin to a file in the root directory",
		UsageText: "stkit write PATH [--data STRING]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "write this string instead of reading stdin",
			},
		},
		Action: WriteCommandAction,
		Meta:   meta,
	}).Build()
}
