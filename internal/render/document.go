package render

import (
	"git.home.luguber.info/inful/gtmdocs/internal/gtm"
	"git.home.luguber.info/inful/gtmdocs/internal/projection"
)

// Document names, relative to the storage root.
const (
	TriggersDocument  = "trigger/README.md"
	TagsDocument      = "tag/README.md"
	VariablesDocument = "variable/README.md"
	VersionsDocument  = "versions.md"
)

// Document is one rendered markdown file.
type Document struct {
	Name string
	Body string
}

// Names lists the document names in the order All returns them.
func Names() []string {
	return []string{TriggersDocument, TagsDocument, VariablesDocument, VersionsDocument}
}

// All renders the four documents from a projection result and the
// version headers.
func All(res *projection.Result, headers []gtm.VersionHeader, links projection.Links) []Document {
	return []Document{
		{Name: TriggersDocument, Body: Triggers(res.Triggers)},
		{Name: TagsDocument, Body: Tags(res.Tags)},
		{Name: VariablesDocument, Body: Variables(res.Variables)},
		{Name: VersionsDocument, Body: Versions(headers, links)},
	}
}
