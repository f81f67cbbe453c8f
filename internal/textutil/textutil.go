// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package textutil

import (
	"reflect"
	"strings"
)

// markdownMetacharacters are escaped in this order. The backslash goes first
// so a single pass never escapes its own output.
var markdownMetacharacters = []string{`\`, "*", "-", "=", "`", "!", "#", "|"}

// EscapeMarkdown returns raw with every markdown metacharacter prefixed by a
// backslash, e.g. "1 * 2" becomes `1 \* 2`.
//
// Escaping an already escaped string escapes the backslashes added by the
// first pass as well. Callers should escape exactly once.
func EscapeMarkdown(raw string) string {
	result := raw
	for _, c := range markdownMetacharacters {
		result = strings.ReplaceAll(result, c, `\`+c)
	}
	return result
}

// TypeName returns the fully qualified name of the dynamic type of obj:
// "<import path>.<Name>" for named types, the type literal for unnamed ones
// (e.g. "[]string"), and a leading "*" per pointer level. nil yields "".
func TypeName(obj any) string {
	t := reflect.TypeOf(obj)
	if t == nil {
		return ""
	}

	var prefix strings.Builder
	for t.Kind() == reflect.Pointer && t.Name() == "" {
		prefix.WriteString("*")
		t = t.Elem()
	}

	if t.PkgPath() == "" || t.Name() == "" {
		return prefix.String() + t.String()
	}
	return prefix.String() + t.PkgPath() + "." + t.Name()
}

// IsType reports whether obj's dynamic type is fqn, as rendered by TypeName.
// It lets callers recognise values from packages they do not import, e.g.
// IsType(v, "github.com/apex/log.Entry").
func IsType(obj any, fqn string) bool {
	if fqn == "" {
		return false
	}
	return TypeName(obj) == fqn
}
