// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []Filter
	}{
		{name: "empty", spec: "", want: nil},
		{name: "equals", spec: "path=a.txt", want: []Filter{{Key: "path", Operand: "=", Target: "a.txt"}}},
		{name: "negated", spec: "path!=a.txt", want: []Filter{{Key: "path", Negate: true, Operand: "=", Target: "a.txt"}}},
		{name: "regex", spec: "path/^a.*", want: []Filter{{Key: "path", Operand: "/", Target: "^a.*"}}},
		{
			name: "multiple",
			spec: "path^a,size>10",
			want: []Filter{
				{Key: "path", Operand: "^", Target: "a"},
				{Key: "size", Operand: ">", Target: "10"},
			},
		},
		{name: "invalid skipped", spec: "nooperand", want: nil},
		{name: "missing key skipped", spec: "=x", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFilters(tt.spec))
		})
	}
}

func TestBuildFilters_Delimiter(t *testing.T) {
	t.Setenv("STKIT_FILTER_DELIM", ";")

	got := BuildFilters("path@a,b;size<3")
	assert.Equal(t, []Filter{
		{Key: "path", Operand: "@", Target: "a,b"},
		{Key: "size", Operand: "<", Target: "3"},
	}, got)
}

func TestFilterDataset(t *testing.T) {
	rows := []map[string]interface{}{
		{"path": "a.txt", "size": int64(5), "dir": false},
		{"path": "logs/b.log", "size": int64(50), "dir": false},
		{"path": "logs", "size": int64(0), "dir": true},
	}
	cols := []string{"path", "size", "dir"}

	tests := []struct {
		name string
		spec string
		want []string
	}{
		{name: "no filter", spec: "", want: []string{"a.txt", "logs/b.log", "logs"}},
		{name: "prefix", spec: "path^logs", want: []string{"logs/b.log", "logs"}},
		{name: "contains", spec: "path@.", want: []string{"a.txt", "logs/b.log"}},
		{name: "fold", spec: "path~A.TXT", want: []string{"a.txt"}},
		{name: "numeric greater", spec: "size>10", want: []string{"logs/b.log"}},
		{name: "numeric not equal", spec: "size!=5", want: []string{"logs/b.log", "logs"}},
		{name: "bool", spec: "dir=true", want: []string{"logs"}},
		{name: "regex", spec: `path/\.log$`, want: []string{"logs/b.log"}},
		{name: "combined", spec: "path^logs,dir=false", want: []string{"logs/b.log"}},
		{name: "unknown key ignored", spec: "owner=me", want: []string{"a.txt", "logs/b.log", "logs"}},
		{name: "bad regex", spec: "path/(", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterDataset(rows, cols, tt.spec)
			var paths []string
			for _, r := range got {
				paths = append(paths, r["path"].(string))
			}
			assert.Equal(t, tt.want, paths)
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	assert.True(t, checkNumericOperand(3, Filter{Operand: "=", Target: " 3 "}))
	assert.False(t, checkNumericOperand(3, Filter{Operand: "=", Target: "abc"}))
	assert.False(t, checkNumericOperand(3, Filter{Operand: "^", Target: "3"}))
	assert.True(t, checkNumericOperand(1, Filter{Operand: ">", Negate: true, Target: "2"}))
}
