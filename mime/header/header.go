// Package header implements the case-insensitive, order-preserving
// header multi-map spec.md calls HeaderContainer. net/textproto.MIMEHeader
// is close but is a plain map, so it can't preserve either insertion
// order or the original casing of a header name's first occurrence —
// both of which re-emission needs.
package header

import "strings"

type entry struct {
	name  string // original casing, as first seen
	value string
}

// Container is a case-insensitive, ordered multi-map from header name to
// raw (unparsed) value.
type Container struct {
	entries []entry
}

// New returns an empty Container.
func New() *Container {
	return &Container{}
}

func foldEq(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Add appends a new value for name, preserving any existing entries.
func (c *Container) Add(name, value string) {
	c.entries = append(c.entries, entry{name: name, value: value})
}

// Set replaces every existing entry whose name matches (case-insensitive)
// with a single entry holding value, at the position of the first match.
// If there is no existing entry, it appends one.
func (c *Container) Set(name, value string) {
	for i := range c.entries {
		if foldEq(c.entries[i].name, name) {
			c.entries[i].value = value
			c.removeFrom(i + 1, name)
			return
		}
	}
	c.Add(name, value)
}

func (c *Container) removeFrom(start int, name string) {
	kept := c.entries[:start]
	for _, e := range c.entries[start:] {
		if !foldEq(e.name, name) {
			kept = append(kept, e)
		}
	}
	c.entries = kept
}

// Get returns the index-th (0-based) value for name, or "", false if
// there is no such entry.
func (c *Container) Get(name string, index int) (string, bool) {
	n := 0
	for _, e := range c.entries {
		if foldEq(e.name, name) {
			if n == index {
				return e.value, true
			}
			n++
		}
	}
	return "", false
}

// GetAll returns every value for name, in insertion order.
func (c *Container) GetAll(name string) []string {
	var out []string
	for _, e := range c.entries {
		if foldEq(e.name, name) {
			out = append(out, e.value)
		}
	}
	return out
}

// Remove deletes the index-th occurrence of name. Reports whether
// anything was removed.
func (c *Container) Remove(name string, index int) bool {
	n := 0
	for i, e := range c.entries {
		if !foldEq(e.name, name) {
			continue
		}
		if n == index {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return true
		}
		n++
	}
	return false
}

// Pair is a single (name, value) entry as returned by Iterate, in the
// name's original casing.
type Pair struct {
	Name  string
	Value string
}

// Iterate returns every header pair in insertion order.
func (c *Container) Iterate() []Pair {
	out := make([]Pair, len(c.entries))
	for i, e := range c.entries {
		out[i] = Pair{Name: e.name, Value: e.value}
	}
	return out
}

// Len returns the total number of header entries (counting repeats).
func (c *Container) Len() int {
	return len(c.entries)
}
