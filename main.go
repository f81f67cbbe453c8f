// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/stkit/internal/command"
	"github.com/staranto/stkit/internal/config"
	mylog "github.com/staranto/stkit/internal/log"
	"github.com/staranto/stkit/internal/meta"
	"github.com/staranto/stkit/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain(os.Args, os.Stderr))
}

func realMain(args []string, stderr io.Writer) (code int) {
	mylog.InitLogger()

	// Anything that escapes as a panic is reported, not crashed on.
	defer func() {
		if r := recover(); r != nil {
			reportPanic(stderr, r, debug.Stack())
			code = 3
		}
	}()

	if len(args) < 2 {
		fmt.Fprintln(stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	return 0
}

func reportPanic(w io.Writer, r any, stack []byte) {
	fmt.Fprintln(w, meta.ExceptHookIdentifier)
	fmt.Fprintf(w, "%v\n", r)
	log.Debugf("stack:\n%s", stack)
}

// mangleArguments expands a named argument set from the config file. The set
// is selected with an @name argument directly after the command and defaults
// to "defaults". Later @words are ordinary arguments. The args stored under <command>.<set> are inserted directly
// after the command so explicit args still win.
func mangleArguments(args []string) []string {
	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return append(args[:2:2], "--help")
		}
	}

	if strings.HasPrefix(args[1], "-") {
		return args
	}

	set := "defaults"
	working := args
	if len(args) > 2 && len(args[2]) > 1 && strings.HasPrefix(args[2], "@") {
		set = args[2][1:]
		working = append(args[:2:2], args[3:]...)
	}

	setArgs, _ := config.GetStringSlice(working[1] + "." + set)

	var inserted []string
	for _, arg := range setArgs {
		inserted = append(inserted, strings.Fields(arg)...)
	}

	out := make([]string, 0, len(working)+len(inserted))
	out = append(out, working[:2]...)
	out = append(out, inserted...)
	out = append(out, working[2:]...)

	log.Debugf("set=%s, args=%v", set, out)
	return out
}
