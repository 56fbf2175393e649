package screens

import (
	"sort"
	"strings"

	apperrors "github.com/stackdio/console/internal/errors"
)

var registry = []Screen{Stacks, Blueprints, Formulas, Accounts, SecurityGroups, Environments}

// All returns every screen, sorted by name.
func All() []Screen {
	out := append([]Screen(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Lookup resolves a screen by name or alias, ignoring case.
func Lookup(name string) (Screen, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return nil, apperrors.ValidationField("screen", "screen name is required")
	}
	for _, s := range registry {
		if s.Name() == want {
			return s, nil
		}
		for _, a := range s.Aliases() {
			if a == want {
				return s, nil
			}
		}
	}
	return nil, apperrors.NotFoundf("unknown screen %q", name)
}
