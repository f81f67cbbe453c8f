// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stkit/internal/meta"
	"github.com/staranto/stkit/internal/textutil"
)

// ParseLiteral turns a command line word into a Go value. Integers, floats
// and booleans are recognized first, then JSON documents. Anything else is a
// string.
func ParseLiteral(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	if s != "" && gjson.Valid(s) {
		r := gjson.Parse(s)
		if r.IsObject() || r.IsArray() || r.Type == gjson.Null {
			return r.Value()
		}
	}
	return s
}

// TypeofCommandAction reports the runtime type name of each argument and, with
// --is, whether it matches the given fully qualified name.
func TypeofCommandAction(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Args().Present() {
		return errors.New("missing argument: VALUE")
	}

	fqn := cmd.String("is")

	rows := make([]map[string]interface{}, 0, cmd.Args().Len())
	for _, arg := range cmd.Args().Slice() {
		v := ParseLiteral(arg)
		row := map[string]interface{}{
			"value": arg,
			"type":  textutil.TypeName(v),
		}
		if fqn != "" {
			row["match"] = strconv.FormatBool(textutil.IsType(v, fqn))
		}
		rows = append(rows, row)
	}

	cols := []string{"value", "type"}
	if fqn != "" {
		cols = append(cols, "match")
	}
	return Emit(cmd, rows, cols...)
}

// TypeofCommandBuilder constructs the cli.Command definition for "typeof".
func TypeofCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "typeof",
		Usage:     "show the runtime type of literal values",
		UsageText: "stkit typeof VALUE... [--is TYPE]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "is",
				Usage: "compare against this type name, e.g. int or map[string]interface {}",
			},
		},
		Listing: true,
		Action:  TypeofCommandAction,
		Meta:    meta,
	}).Build()
}
