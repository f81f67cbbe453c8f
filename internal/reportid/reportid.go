// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package reportid generates short, URL safe identifiers for reports.
package reportid

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// New returns the base58 encoding of the bytes of a random (version 4) UUID.
func New() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate report id: %w", err)
	}
	return Encode(id), nil
}

// Encode renders id the way New does.
func Encode(id uuid.UUID) string {
	return base58.Encode(id[:])
}

// Decode reverses Encode.
func Decode(s string) (uuid.UUID, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid report id %q: %w", s, err)
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid report id %q: %w", s, err)
	}
	return id, nil
}
