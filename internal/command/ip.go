// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stkit/internal/meta"
	"github.com/staranto/stkit/internal/netutil"
)

// IPCommandAction prints the internal and/or external IP address of this
// machine. With neither --internal nor --external both are shown.
func IPCommandAction(ctx context.Context, cmd *cli.Command) error {
	internal, external := cmd.Bool("internal"), cmd.Bool("external")
	if !internal && !external {
		internal, external = true, true
	}

	r := netutil.NewResolver(
		netutil.WithURL(cmd.String("url")),
		netutil.WithJSONPath(cmd.String("json-path")),
		netutil.WithTimeout(cmd.Duration("timeout")),
	)

	var rows []map[string]interface{}
	if internal {
		rows = append(rows, map[string]interface{}{"kind": "internal", "address": r.InternalIP()})
	}
	if external {
		rows = append(rows, map[string]interface{}{"kind": "external", "address": r.ExternalIP(ctx)})
	}

	cols := []string{"kind", "address"}
	if cmd.String("output") == "raw" {
		cols = []string{"address"}
	}
	return Emit(cmd, rows, cols...)
}

// IPCommandBuilder constructs the cli.Command definition for "ip".
func IPCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	src := meta.Config.Source
	return (&CommandBuilder{
		Name:      "ip",
		Usage:     "show internal and external IP addresses",
		UsageText: "stkit ip [--internal] [--external] [options]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "internal",
				Aliases: []string{"i"},
				Usage:   "show the address of the outbound interface",
			},
			&cli.BoolFlag{
				Name:    "external",
				Aliases: []string{"e"},
				Usage:   "show the address seen by the IP echo service",
			},
			NameSpacedValueChainFlagFromConfigFile("ip", src, &cli.StringFlag{
				Name:  "url",
				Usage: "IP echo service",
				Value: netutil.CheckIPURL,
				Validator: func(v string) error {
					return FlagValidators(v, JammedFlagValidator)
				},
			}),
			NameSpacedValueChainFlagFromConfigFile("ip", src, &cli.StringFlag{
				Name:  "json-path",
				Usage: "gjson path of the address when the echo service answers in JSON",
			}),
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "timeout for the echo request",
				Value: netutil.DefaultTimeout,
				Sources: cli.NewValueSourceChain(
					yaml.YAML("ip.timeout", altsrc.StringSourcer(src)),
				),
			},
		},
		Listing: true,
		Action:  IPCommandAction,
		Meta:    meta,
	}).Build()
}
