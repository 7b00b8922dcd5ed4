// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package label implements the ordered key/value label primitives shared
// by measures, the relabeling engine, and the metrics store.
package label

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/common/model"
)

// Label is a single (key, value) pair. Keys are non-empty and match
// the label-name grammar (see Valid). Keys starting with "__" are
// virtual: never emitted in exposition output.
type Label struct {
	Key   string
	Value string
}

// IsVirtual reports whether l is a "__"-prefixed label, stripped before
// serialization and meaningful only during relabeling.
func (l Label) IsVirtual() bool {
	return strings.HasPrefix(l.Key, "__")
}

// Valid reports whether the label key conforms to the label-name
// grammar. Virtual keys (double-underscore prefixed) are always valid
// regardless of what follows, since they're synthetic bookkeeping.
func (l Label) Valid() bool {
	if l.Key == "" {
		return false
	}
	if strings.HasPrefix(l.Key, "__") {
		return true
	}
	return model.LabelName(l.Key).IsValid()
}

// Set is an ordered collection of Labels with unique keys. Equality is
// by content, not order; Sorted returns the canonical ascending-by-key
// order used for serialization.
type Set []Label

// New builds a Set from key/value pairs, validating uniqueness.
// Construction-time errors (duplicate keys) are programmer errors in
// this core, so New panics rather than returning an error — callers
// that build label sets from untrusted input (e.g. relabel rule
// evaluation) go through the mutable active label map instead (see
// package relabel), not this constructor.
func New(pairs ...Label) Set {
	seen := make(map[string]struct{}, len(pairs))
	out := make(Set, 0, len(pairs))
	for _, p := range pairs {
		if _, dup := seen[p.Key]; dup {
			panic(fmt.Sprintf("label: duplicate key %q", p.Key))
		}
		seen[p.Key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Get returns the value for key and whether it was present.
func (s Set) Get(key string) (string, bool) {
	for _, l := range s {
		if l.Key == key {
			return l.Value, true
		}
	}
	return "", false
}

// Sorted returns a copy of s ordered ascending by key — the canonical
// order used both for comparison and OpenMetrics serialization.
func (s Set) Sorted() Set {
	out := make(Set, len(s))
	copy(out, s)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// WithoutVirtual returns a copy of s with all "__"-prefixed labels
// removed, in canonical order.
func (s Set) WithoutVirtual() Set {
	sorted := s.Sorted()
	out := make(Set, 0, len(sorted))
	for _, l := range sorted {
		if !l.IsVirtual() {
			out = append(out, l)
		}
	}
	return out
}

// Equal reports whether s and other contain the same (key, value)
// pairs, irrespective of order.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	a, b := s.Sorted(), other.Sorted()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Key renders the canonical, order-independent string used as a map
// key within a metric family's value table.
func (s Set) Key() string {
	sorted := s.Sorted()
	var b strings.Builder
	for i, l := range sorted {
		if i > 0 {
			b.WriteByte('\x00')
		}
		b.WriteString(l.Key)
		b.WriteByte('=')
		b.WriteString(l.Value)
	}
	return b.String()
}

// String renders the OpenMetrics `{k="v",...}` block, omitting the
// braces entirely when s is empty. s is assumed already virtual-free
// and canonically sorted (see WithoutVirtual/Sorted); String itself
// re-sorts defensively since it is cheap and callers sometimes hold
// unsorted sets.
func (s Set) String() string {
	if len(s) == 0 {
		return ""
	}
	sorted := s.Sorted()
	var b strings.Builder
	b.WriteByte('{')
	for i, l := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(l.Key)
		b.WriteString(`="`)
		b.WriteString(escapeValue(l.Value))
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}

func escapeValue(v string) string {
	if !strings.ContainsAny(v, `"\`+"\n") {
		return v
	}
	var b strings.Builder
	for _, r := range v {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
