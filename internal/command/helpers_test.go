// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/staranto/stkit/internal/config"
)

// isolate points the root directory at a temp dir and hides any user config.
// It returns the root directory.
func isolate(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), ".streamlit")
	t.Setenv("STKIT_ROOT", root)
	t.Setenv("STKIT_CFG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", t.TempDir())
	config.Config = config.Type{}

	return root
}

// runApp runs stkit with args and returns what it wrote to stdout.
func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	full := append([]string{"stkit"}, args...)
	app, err := InitApp(context.Background(), full)
	require.NoError(t, err)

	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = strings.NewReader(stdin)

	err = app.Run(context.Background(), full)
	return out.String(), err
}
