// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package reportid

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

func TestNew(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := New()
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true

		assert.GreaterOrEqual(t, len(id), 16)
		assert.LessOrEqual(t, len(id), 22)
		for _, r := range id {
			assert.True(t, strings.ContainsRune(base58Alphabet, r), "unexpected rune %q", r)
		}

		back, err := Decode(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), back.Version())
	}
}

func TestEncodeDecode(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-41d1-80b4-00c04fd430c8")

	got, err := Decode(Encode(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode("0OIl")
	assert.Error(t, err)

	_, err = Decode("2NEpo7TZRRrLZSi2U")
	assert.Error(t, err, "too short to be a uuid")
}
