package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/gtmdocs/internal/gtm"
)

func cond(op, left, right string) gtm.Condition {
	return gtm.Condition{Type: op, Parameter: []gtm.Parameter{{Key: "arg0", Value: left}, {Key: "arg1", Value: right}}}
}

func TestSelectFilters_Priority(t *testing.T) {
	std := []gtm.Condition{cond("equals", "a", "b")}
	custom := []gtm.Condition{cond("contains", "c", "d")}
	auto := []gtm.Condition{cond("matchRegex", "e", "f")}

	tests := []struct {
		name    string
		trigger gtm.Trigger
		kind    FilterKind
	}{
		{"none", gtm.Trigger{}, FilterNone},
		{"standard wins", gtm.Trigger{Filter: std, CustomEventFilter: custom, AutoEventFilter: auto}, FilterStandard},
		{"custom before auto", gtm.Trigger{CustomEventFilter: custom, AutoEventFilter: auto}, FilterCustomEvent},
		{"auto alone", gtm.Trigger{AutoEventFilter: auto}, FilterAuto},
		{"present but empty", gtm.Trigger{Filter: []gtm.Condition{}, AutoEventFilter: auto}, FilterStandard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, SelectFilters(tt.trigger).Kind)
		})
	}
}

func TestFilterSet_Format(t *testing.T) {
	fs := FilterSet{Kind: FilterAuto, Conditions: []gtm.Condition{
		cond("matchRegex", "{{Page URL}}", "^/shop"),
		cond("doesNotContain", "{{Click Text}}", "cancel"),
	}}
	assert.Equal(t, "{{Page URL}} [MATCHREGEX] ^/shop,\n{{Click Text}} [DOESNOTCONTAIN] cancel", fs.Format())

	assert.Equal(t, "", FilterSet{}.Format())
	assert.Equal(t, "", FilterSet{Kind: FilterStandard}.Format())
}

func TestFilterSet_FormatMissingOperand(t *testing.T) {
	fs := FilterSet{Kind: FilterStandard, Conditions: []gtm.Condition{{Type: "equals", Parameter: []gtm.Parameter{{Value: "x"}}}}}
	assert.Equal(t, "x [EQUALS] undefined", fs.Format())
}

func TestFilterKindString(t *testing.T) {
	assert.Equal(t, "customEventFilter", FilterCustomEvent.String())
	assert.Equal(t, "none", FilterNone.String())
}

func TestParameterPolicy(t *testing.T) {
	params := []gtm.Parameter{{Key: "htmlContent", Value: "<p>"}, {Key: "html", Value: "<div>"}}

	v, ok := requiredParam(params, keyContains("html"))
	assert.True(t, ok)
	assert.Equal(t, "<p>", v, "first match in collection order")

	_, ok = requiredParam(nil, keyContains("javascript"))
	assert.False(t, ok)

	assert.Equal(t, "", optionalParam(params, keyIn("value")))
}

func TestLinks(t *testing.T) {
	assert.Equal(t, "tag-9", KindTag.Anchor("9"))
	assert.Equal(t, "variable/?id=variable-5", KindVariable.RelativeLink("5"))
	assert.Equal(t, "https://tagmanager.google.com/#/versions/accounts/100/containers/200/versions/12", testLinks.Version("12"))
}
