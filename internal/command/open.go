// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stkit/internal/browser"
	"github.com/staranto/stkit/internal/meta"
)

// runBrowser starts the launcher command. Tests swap it out.
var runBrowser browser.Runner = browser.StartDetached

// OpenCommandAction opens a URL in the default browser. When no browser can
// be launched on the platform the URL is printed instead.
func OpenCommandAction(ctx context.Context, cmd *cli.Command) error {
	args, err := RequireArgs(cmd, "URL")
	if err != nil {
		return err
	}

	o := &browser.Opener{GOOS: cmd.String("platform"), Run: runBrowser}
	err = o.Open(args[0])
	if errors.Is(err, browser.ErrUnsupportedPlatform) {
		log.WithError(err).Warn("falling back to printing the URL")
		_, err = fmt.Fprintf(Stdout(cmd), "Open %s in your browser.\n", args[0])
	}
	return err
}

// OpenCommandBuilder constructs the cli.Command definition for "open".
func OpenCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "open",
		Usage:     "open a URL in the default browser",
		UsageText: "stkit open URL [--platform NAME]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "platform",
				Aliases: []string{"p"},
				Usage:   "launch as if running on this platform (linux, darwin, windows)",
			},
		},
		Action: OpenCommandAction,
		Meta:   meta,
	}).Build()
}
