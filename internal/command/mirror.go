// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/stkit/internal/meta"
	"github.com/staranto/stkit/internal/mirror"
)

// newObjectStore builds the remote side of push and pull. Tests swap it out.
var newObjectStore = func(ctx context.Context, bucket, endpoint string) (mirror.ObjectStore, error) {
	return mirror.NewS3Store(ctx, bucket, endpoint)
}

type transferFunc func(context.Context, *cli.Command, mirror.ObjectStore, string) ([]string, error)

func mirrorAction(transfer transferFunc) func(context.Context, *cli.Command) error {
	return func(ctx context.Context, cmd *cli.Command) error {
		objs, err := newObjectStore(ctx, cmd.String("bucket"), cmd.String("endpoint"))
		if err != nil {
			return err
		}

		keys, err := transfer(ctx, cmd, objs, cmd.String("prefix"))

		// Report partial progress even on failure.
		rows := make([]map[string]interface{}, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, map[string]interface{}{"key": k})
		}
		if emitErr := Emit(cmd, rows, "key"); err == nil {
			err = emitErr
		}
		return err
	}
}

// PushCommandAction uploads the root directory.
var PushCommandAction = mirrorAction(func(ctx context.Context, cmd *cli.Command, objs mirror.ObjectStore, prefix string) ([]string, error) {
	return mirror.Push(ctx, GetStore(cmd), objs, prefix)
})

// PullCommandAction downloads into the root directory.
var PullCommandAction = mirrorAction(func(ctx context.Context, cmd *cli.Command, objs mirror.ObjectStore, prefix string) ([]string, error) {
	return mirror.Pull(ctx, GetStore(cmd), objs, prefix)
})

func newMirrorFlags(src string) []cli.Flag {
	return []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile("mirror", src, &cli.StringFlag{
			Name:    "bucket",
			Aliases: []string{"b"},
			Usage:   "S3 bucket",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STKIT_BUCKET")),
		}),
		NameSpacedValueChainFlagFromConfigFile("mirror", src, &cli.StringFlag{
			Name:    "prefix",
			Aliases: []string{"p"},
			Usage:   "key prefix inside the bucket",
		}),
		NameSpacedValueChainFlagFromConfigFile("mirror", src, &cli.StringFlag{
			Name:    "endpoint",
			Usage:   "S3 compatible endpoint URL",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STKIT_S3_ENDPOINT")),
		}),
	}
}

// PushCommandBuilder constructs the cli.Command definition for "push".
func PushCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "push",
		Usage:     "upload the root directory to S3",
		UsageText: "stkit push [--bucket NAME] [--prefix KEY] [options]",
		Flags:     newMirrorFlags(meta.Config.Source),
		Listing:   true,
		Action:    PushCommandAction,
		Meta:      meta,
	}).Build()
}

// PullCommandBuilder constructs the cli.Command definition for "pull".
func PullCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "pull",
		Usage:     "download the root directory from S3",
		UsageText: "stkit pull [--bucket NAME] [--prefix KEY] [options]",
		Flags:     newMirrorFlags(meta.Config.Source),
		Listing:   true,
		Action:    PullCommandAction,
		Meta:      meta,
	}).Build()
}
