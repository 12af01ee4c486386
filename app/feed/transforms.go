package feed

import (
	"fmt"
	"strings"
)

// Transform is a pure function from a raw source value (plus the raw item
// for cross-field rules) to an output value. Transforms never touch I/O, so
// mapping tables can be unit-tested in isolation.
type Transform func(value string, item Item) string

var transforms = map[string]Transform{
	"":          func(v string, _ Item) string { return v },
	"trim":      func(v string, _ Item) string { return strings.TrimSpace(v) },
	"lowercase": func(v string, _ Item) string { return strings.ToLower(strings.TrimSpace(v)) },

	// decimal_comma normalizes European decimal notation ("12,50") to
	// decimal point form.
	"decimal_comma": func(v string, _ Item) string {
		return strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
	},

	"wrap_paragraph": func(v string, _ Item) string {
		if v == "" {
			return ""
		}
		return "<p>" + v + "</p>"
	},

	// blocked_status derives the lifecycle status from the feed's blocked
	// flag, consulting the discontinued flag on the same item.
	"blocked_status": func(v string, item Item) string {
		if v == "J" {
			return "draft"
		}
		if item.First("AUSLAUF") == "1" {
			return "archived"
		}
		return "active"
	},

	// nonzero drops placeholder "0" values that some feeds emit for absent
	// data.
	"nonzero": func(v string, _ Item) string {
		if v == "0" {
			return ""
		}
		return v
	},
}

func lookupTransform(name string) (Transform, error) {
	t, ok := transforms[name]
	if !ok {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}
	return t, nil
}
