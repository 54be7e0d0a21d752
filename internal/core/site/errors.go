package site

import (
	"maps"
	"slices"
	"strings"
)

// NonFieldKey is the key the site uses for errors not tied to one field.
const NonFieldKey = "__all__"

// FieldErrors maps a form field to its validation messages, as the site
// serializes them.
type FieldErrors map[string][]string

// Field returns the messages of one field.
func (fe FieldErrors) Field(name string) []string {
	return fe[name]
}

// Fields returns the field names in sorted order.
func (fe FieldErrors) Fields() []string {
	return slices.Sorted(maps.Keys(fe))
}

// Joined returns every message, ordered by field name, separated by spaces.
func (fe FieldErrors) Joined() string {
	var msgs []string
	for _, k := range fe.Fields() {
		for _, m := range fe[k] {
			if m = strings.TrimSpace(m); m != "" {
				msgs = append(msgs, m)
			}
		}
	}
	return strings.Join(msgs, " ")
}
