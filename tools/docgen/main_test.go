// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = "# stkit ls\n\n" +
	"## Short description\n\n" +
	"List the files under the root directory\nwith their size and age.\n\n" +
	"## Quick examples\n\n" +
	"```sh\n" +
	"# List files with titles\n" +
	"stkit ls   --titles\n" +
	"\n" +
	"stkit ls -o json\n" +
	"```\n"

func TestExtractTitleAndShortDesc(t *testing.T) {
	title, short := extractTitleAndShortDesc(sampleDoc)
	assert.Equal(t, "stkit ls", title)
	assert.Equal(t, "List the files under the root directory with their size and age.", short)

	title, short = extractTitleAndShortDesc("# only a title\n")
	assert.Equal(t, "only a title", title)
	assert.Equal(t, "only a title.", short)
}

func TestExtractQuickExamples(t *testing.T) {
	got := extractQuickExamples(sampleDoc)
	assert.Equal(t, []example{
		{Desc: "List files with titles", Cmd: "stkit ls   --titles"},
		{Desc: "Example", Cmd: "stkit ls -o json"},
	}, got)

	assert.Nil(t, extractQuickExamples("# no examples\n"))
}

func TestBuildTLDR(t *testing.T) {
	got := buildTLDR("ls", "stkit ls", "List files.", extractQuickExamples(sampleDoc))
	assert.Equal(t, "# stkit-ls\n\n"+
		"> List files.\n"+
		"> More information: https://github.com/staranto/stkit.\n\n"+
		"- List files with titles:\n\n"+
		"`stkit ls --titles`\n"+
		"\n"+
		"- Example:\n\n"+
		"`stkit ls -o json`\n", got)

	assert.Contains(t, buildTLDR("ip", "", "", nil), "`stkit ip --help`")
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	cmds := filepath.Join(root, "docs", "commands")
	require.NoError(t, os.MkdirAll(cmds, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cmds, "ls.md"), []byte(sampleDoc), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(cmds, "notes.txt"), []byte("skip"), 0o600))

	n, err := run(root, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	man, err := os.ReadFile(filepath.Join(root, "docs", "man", "share", "man1", "stkit-ls.1"))
	require.NoError(t, err)
	assert.NotEmpty(t, man)

	tldr, err := os.ReadFile(filepath.Join(root, "docs", "tldr", "stkit-ls.md"))
	require.NoError(t, err)
	assert.Contains(t, string(tldr), "# stkit-ls")

	_, err = run(t.TempDir(), true)
	assert.Error(t, err)
}
