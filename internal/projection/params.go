package projection

import (
	"slices"
	"strings"

	"git.home.luguber.info/inful/gtmdocs/internal/gtm"
)

type paramMatch func(gtm.Parameter) bool

func keyContains(sub string) paramMatch {
	return func(p gtm.Parameter) bool { return strings.Contains(p.Key, sub) }
}

func keyIn(keys ...string) paramMatch {
	return func(p gtm.Parameter) bool { return slices.Contains(keys, p.Key) }
}

func findParam(params []gtm.Parameter, match paramMatch) (gtm.Parameter, bool) {
	for _, p := range params {
		if match(p) {
			return p, true
		}
	}
	return gtm.Parameter{}, false
}

// requiredParam returns the value of the first matching parameter and
// reports false when none matches. Callers turn a miss into a data-integrity error.
func requiredParam(params []gtm.Parameter, match paramMatch) (string, bool) {
	p, ok := findParam(params, match)
	return p.Value, ok
}

// optionalParam returns the value of the first matching parameter, or "".
func optionalParam(params []gtm.Parameter, match paramMatch) string {
	p, _ := findParam(params, match)
	return p.Value
}
