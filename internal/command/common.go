// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stkit/internal/meta"
	"github.com/staranto/stkit/internal/output"
	"github.com/staranto/stkit/internal/scoped"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr stkit-<subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "stkit-"+subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// GetStore returns the scoped store for cmd, falling back to the default
// resolution when none was wired.
func GetStore(cmd *cli.Command) *scoped.Store {
	if s := GetMeta(cmd).Store; s != nil {
		return s
	}
	return scoped.Default()
}

// Stdout is where command results are written.
func Stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// Stdin is where commands read piped input from.
func Stdin(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

// Emit renders rows with the common output flags.
func Emit(cmd *cli.Command, rows []map[string]interface{}, cols ...string) error {
	return output.SliceDiceSpit(Stdout(cmd), rows, cols, output.OptionsFrom(cmd))
}

// RequireArgs returns the first n positional args or an error naming the
// missing ones.
func RequireArgs(cmd *cli.Command, names ...string) ([]string, error) {
	args := cmd.Args().Slice()
	if len(args) < len(names) {
		return nil, errors.New("missing argument: " + strings.Join(names[len(args):], ", "))
	}
	return args[:len(names)], nil
}

// CommandBuilder constructs a cli.Command for a subcommand using a consistent
// pattern. Listing commands get the common output flags.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Listing   bool
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	flags := append(cb.Flags, newTLDRFlag()) //nolint:gocritic
	if cb.Listing {
		flags = append(flags, NewGlobalFlags(cb.Name, cb.Meta.Config.Source)...)
	}

	name := cb.Name
	action := cb.Action

	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log.Debugf("executing %s with %v", name, cmd.Args().Slice())
			if ShortCircuitTLDR(ctx, cmd, name) {
				return nil
			}
			return action(ctx, cmd)
		},
	}
}
