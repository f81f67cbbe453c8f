// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package memo provides compute-once containers. All of them are safe for
// concurrent use: a value is produced by exactly one caller and every other
// caller observes that same value.
package memo

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memoize wraps a no-args func so that fn runs at most once. Callers racing
// on the first call block until fn returns and then share its result.
func Memoize[T any](fn func() T) func() T {
	var v Value[T]
	return func() T {
		return v.Get(fn)
	}
}

// Value holds a value computed by the first call to Get. The zero value is
// ready to use.
type Value[T any] struct {
	once sync.Once
	v    T
}

// Get returns the stored value, calling fn to produce it on first use. fn is
// ignored on later calls.
func (c *Value[T]) Get(fn func() T) T {
	c.once.Do(func() {
		c.v = fn()
	})
	return c.v
}

// Lazy holds the first successful result of a fallible computation. Failed
// attempts are not stored, so a later Get tries again. Concurrent callers of
// Get share a single in-flight attempt. The zero value is ready to use.
type Lazy[T any] struct {
	mu   sync.RWMutex
	ok   bool
	v    T
	sf   singleflight.Group
	runs int
}

const lazyKey = "lazy"

// Get returns the stored value, or runs fn and stores its result when fn
// succeeds.
func (l *Lazy[T]) Get(fn func() (T, error)) (T, error) {
	if v, ok := l.Peek(); ok {
		return v, nil
	}

	res, err, _ := l.sf.Do(lazyKey, func() (any, error) {
		// Another flight may have finished between Peek and Do.
		if v, ok := l.Peek(); ok {
			return v, nil
		}

		l.mu.Lock()
		l.runs++
		l.mu.Unlock()

		v, err := fn()
		if err != nil {
			return v, err
		}

		l.mu.Lock()
		l.v, l.ok = v, true
		l.mu.Unlock()
		return v, nil
	})

	v, _ := res.(T)
	return v, err
}

// Peek returns the stored value without computing it.
func (l *Lazy[T]) Peek() (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v, l.ok
}

// Set stores v as if a computation had produced it.
func (l *Lazy[T]) Set(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.v, l.ok = v, true
}

// Reset forgets the stored value.
func (l *Lazy[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero T
	l.v, l.ok = zero, false
}

// Runs reports how many times a computation was started.
func (l *Lazy[T]) Runs() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.runs
}
