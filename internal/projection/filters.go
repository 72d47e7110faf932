package projection

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/gtmdocs/internal/gtm"
)

// FilterKind tells which of a trigger's mutually exclusive filter collections is active.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterStandard
	FilterCustomEvent
	FilterAuto
)

func (k FilterKind) String() string {
	switch k {
	case FilterStandard:
		return "filter"
	case FilterCustomEvent:
		return "customEventFilter"
	case FilterAuto:
		return "autoEventFilter"
	default:
		return "none"
	}
}

// FilterSet is the active filter collection of a trigger.
type FilterSet struct {
	Kind       FilterKind
	Conditions []gtm.Condition
}

// SelectFilters picks the first present collection in the order
// filter, customEventFilter, autoEventFilter. Presence means the field was
// set at all, even to an empty list.
func SelectFilters(t gtm.Trigger) FilterSet {
	switch {
	case t.Filter != nil:
		return FilterSet{Kind: FilterStandard, Conditions: t.Filter}
	case t.CustomEventFilter != nil:
		return FilterSet{Kind: FilterCustomEvent, Conditions: t.CustomEventFilter}
	case t.AutoEventFilter != nil:
		return FilterSet{Kind: FilterAuto, Conditions: t.AutoEventFilter}
	default:
		return FilterSet{Kind: FilterNone}
	}
}

// Format renders each condition as "<left> [<OPERATOR>] <right>" joined by ",\n".
func (fs FilterSet) Format() string {
	if fs.Kind == FilterNone {
		return ""
	}
	upper := cases.Upper(language.Und)
	parts := make([]string, 0, len(fs.Conditions))
	for _, c := range fs.Conditions {
		parts = append(parts, operand(c, 0)+" ["+upper.String(c.Type)+"] "+operand(c, 1))
	}
	return strings.Join(parts, ",\n")
}

func operand(c gtm.Condition, i int) string {
	if i >= len(c.Parameter) {
		return Unresolved
	}
	return c.Parameter[i].Value
}
