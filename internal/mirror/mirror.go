// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/stkit/internal/scoped"
)

// ObjectStore is a flat key/value blob store.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// List returns every key below prefix. An empty prefix lists everything.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Key maps a root relative path onto an object key.
func Key(prefix, rel string) string {
	if prefix == "" {
		return rel
	}
	return path.Join(prefix, rel)
}

// Push uploads every file under the root of store and returns the keys
// written. Empty files are skipped.
func Push(ctx context.Context, store *scoped.Store, objs ObjectStore, prefix string) ([]string, error) {
	entries, err := store.List()
	if err != nil {
		return nil, err
	}

	var pushed []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return pushed, err
		}

		key := Key(prefix, e.Path)
		err := store.Read(e.Path, func(r io.Reader) error {
			return objs.Put(ctx, key, r, e.Size)
		})
		if errors.Is(err, scoped.ErrZeroByteFile) {
			log.Warnf("skipping empty file %s", e.Path)
			continue
		}
		if err != nil {
			return pushed, fmt.Errorf("failed to push %s: %w", e.Path, err)
		}

		log.Debugf("pushed %s", key)
		pushed = append(pushed, key)
	}
	return pushed, nil
}

// Pull downloads every object below prefix into the root of store and returns
// the keys read. Keys that would land outside the root are skipped.
func Pull(ctx context.Context, store *scoped.Store, objs ObjectStore, prefix string) ([]string, error) {
	keys, err := objs.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var pulled []string
	for _, key := range keys {
		if strings.HasSuffix(key, "/") {
			continue
		}

		rel := key
		if prefix != "" {
			rel = strings.TrimPrefix(key, strings.TrimSuffix(prefix, "/")+"/")
		}

		if _, err := store.Path(rel); err != nil {
			log.WithError(err).Warnf("skipping %s", key)
			continue
		}

		// The object is fully downloaded before the local file is truncated.
		data, err := fetch(ctx, objs, key)
		if err != nil {
			return pulled, fmt.Errorf("failed to pull %s: %w", key, err)
		}
		if err := store.WriteFile(rel, data); err != nil {
			return pulled, fmt.Errorf("failed to pull %s: %w", key, err)
		}

		log.Debugf("pulled %s", key)
		pulled = append(pulled, key)
	}
	return pulled, nil
}

func fetch(ctx context.Context, objs ObjectStore, key string) ([]byte, error) {
	body, err := objs.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}
