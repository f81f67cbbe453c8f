// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stkit/internal/config"
	"github.com/staranto/stkit/internal/meta"
	"github.com/staranto/stkit/internal/scoped"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the stkit
	// subcommand and also represents the namespace key to be used when retrieving
	// config values. arg[1] could be -h/--help, so ignore it if it appears to be
	// a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, err := config.Load(ns)
	if err != nil {
		log.WithError(err).Debug("running without a config file")
	}

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		Store:       scoped.Default(),
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "stkit",
		Usage: "Streamlit runtime toolkit",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "stkit version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		CompletionCommandBuilder(app, meta),
		EscapeCommandBuilder(app, meta),
		IPCommandBuilder(app, meta),
		LsCommandBuilder(app, meta),
		OpenCommandBuilder(app, meta),
		PullCommandBuilder(app, meta),
		PurgeCommandBuilder(app, meta),
		PushCommandBuilder(app, meta),
		ReadCommandBuilder(app, meta),
		ReportIDCommandBuilder(app, meta),
		TypeofCommandBuilder(app, meta),
		WriteCommandBuilder(app, meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
