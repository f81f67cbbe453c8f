// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/staranto/stkit/internal/config"
	"github.com/staranto/stkit/internal/scoped"
)

// ExceptHookIdentifier prefixes the report of an unexpected failure so it can
// be told apart from ordinary command errors.
const ExceptHookIdentifier = "Streamlit has caught the following unhandled exception..."

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	Store       *scoped.Store
	StartingDir string
}
