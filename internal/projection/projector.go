package projection

import (
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/gtmdocs/internal/gtm"
)

// Unresolved is rendered in place of a name whose id is not in the snapshot.
// It matches the text already present in previously published documents.
const Unresolved = "undefined"

// Options tunes projection.
type Options struct {
	// SanitizeNotes strips unsafe HTML from entity notes.
	SanitizeNotes bool
}

// Result holds the records for every entity of a snapshot.
type Result struct {
	Triggers  []TriggerRecord
	Tags      []TagRecord
	Variables []VariableRecord
	Warnings  []Warning
}

// Projector projects one snapshot. It never mutates the snapshot.
type Projector struct {
	cv       *gtm.ContainerVersion
	index    Index
	links    Links
	notes    *bluemonday.Policy
	warnings []Warning
}

// New prepares a projector for cv.
func New(cv *gtm.ContainerVersion, links Links, opts Options) *Projector {
	if cv == nil {
		cv = &gtm.ContainerVersion{}
	}
	p := &Projector{cv: cv, index: BuildIndex(cv), links: links}
	if opts.SanitizeNotes {
		p.notes = bluemonday.UGCPolicy()
	}
	return p
}

// Project runs all three projectors. A data-integrity failure in any
// variable fails the whole projection.
func Project(cv *gtm.ContainerVersion, links Links, opts Options) (*Result, error) {
	p := New(cv, links, opts)
	triggers := p.Triggers()
	tags := p.Tags()
	variables, err := p.Variables()
	if err != nil {
		return nil, err
	}
	return &Result{
		Triggers:  triggers,
		Tags:      tags,
		Variables: variables,
		Warnings:  p.Warnings(),
	}, nil
}

// Warnings returns unresolved references seen so far.
func (p *Projector) Warnings() []Warning {
	return append([]Warning(nil), p.warnings...)
}

// Triggers projects every trigger in input order.
func (p *Projector) Triggers() []TriggerRecord {
	out := make([]TriggerRecord, 0, len(p.cv.Trigger))
	for _, t := range p.cv.Trigger {
		out = append(out, TriggerRecord{
			ID:      t.TriggerID,
			Name:    t.Name,
			Type:    t.Type,
			Link:    p.links.Editor(KindTrigger, t.TriggerID),
			Notes:   p.sanitize(t.Notes),
			Folder:  p.folderLabel(KindTrigger, t.TriggerID, t.ParentFolderID),
			Filters: SelectFilters(t).Format(),
			Tags:    p.firingTags(t.TriggerID),
		})
	}
	return out
}

// firingTags lists tags whose firingTriggerId contains triggerID.
func (p *Projector) firingTags(triggerID string) string {
	var bullets []string
	for _, tag := range p.cv.Tag {
		if !slices.Contains(tag.FiringTriggerID, triggerID) {
			continue
		}
		bullets = append(bullets, "- [("+tag.TagID+") "+tag.Name+"]("+KindTag.RelativeLink(tag.TagID)+")")
	}
	return strings.Join(bullets, ",\n")
}

// Tags projects every tag in input order.
func (p *Projector) Tags() []TagRecord {
	out := make([]TagRecord, 0, len(p.cv.Tag))
	for _, t := range p.cv.Tag {
		out = append(out, TagRecord{
			ID:       t.TagID,
			Name:     t.Name,
			Type:     t.Type,
			Link:     p.links.Editor(KindTag, t.TagID),
			Notes:    p.sanitize(t.Notes),
			Folder:   p.folderLabel(KindTag, t.TagID, t.ParentFolderID),
			Triggers: p.tagTriggers(t),
			Content:  optionalParam(t.Parameter, keyContains("html")),
			Paused:   t.Paused,
		})
	}
	return out
}

func (p *Projector) tagTriggers(t gtm.Tag) string {
	firing := make([]string, 0, len(t.FiringTriggerID))
	for _, id := range t.FiringTriggerID {
		name := p.triggerName(t.TagID, id)
		firing = append(firing, "- [("+id+") "+name+"]("+KindTrigger.RelativeLink(id)+")")
	}
	list := strings.Join(firing, "\n")
	if len(t.BlockingTriggerID) == 0 {
		return list
	}

	blocking := make([]string, 0, len(t.BlockingTriggerID))
	for _, id := range t.BlockingTriggerID {
		blocking = append(blocking, "- ("+id+") "+p.triggerName(t.TagID, id))
	}
	return list + "\n\nBLOCKING TRIGGERS\n\n" + strings.Join(blocking, "\n")
}

// Variables projects every variable in input order. A jsm variable without
// a javascript parameter is a data-integrity error.
func (p *Projector) Variables() ([]VariableRecord, error) {
	out := make([]VariableRecord, 0, len(p.cv.Variable))
	for _, v := range p.cv.Variable {
		content, err := variableContent(v)
		if err != nil {
			return nil, err
		}
		out = append(out, VariableRecord{
			ID:      v.VariableID,
			Name:    v.Name,
			Type:    v.Type,
			Link:    p.links.Editor(KindVariable, v.VariableID),
			Notes:   p.sanitize(v.Notes),
			Folder:  p.folderLabel(KindVariable, v.VariableID, v.ParentFolderID),
			Content: content,
		})
	}
	return out, nil
}

// VariableTypeJavaScript is the type of custom JavaScript variables.
const VariableTypeJavaScript = "jsm"

func variableContent(v gtm.Variable) (string, error) {
	if v.Type != VariableTypeJavaScript {
		return optionalParam(v.Parameter, keyIn("value", "defaultValue", "name")), nil
	}
	script, ok := requiredParam(v.Parameter, keyContains("javascript"))
	if !ok {
		return "", ferrors.DataIntegrityError("custom JavaScript variable has no javascript parameter").
			WithContext("variable_id", v.VariableID).
			WithContext("variable_name", v.Name).
			Build()
	}
	return script, nil
}

func (p *Projector) folderLabel(kind Kind, entityID, folderID string) string {
	if folderID == "" {
		return ""
	}
	name, ok := p.index.FolderName(folderID)
	if !ok {
		p.warn(kind, entityID, "folder", folderID)
		name = Unresolved
	}
	return `<span class="folder">` + name + `</span>`
}

func (p *Projector) triggerName(tagID, triggerID string) string {
	name, ok := p.index.TriggerName(triggerID)
	if !ok {
		p.warn(KindTag, tagID, "trigger", triggerID)
		return Unresolved
	}
	return name
}

func (p *Projector) warn(kind Kind, entityID, ref, missing string) {
	p.warnings = append(p.warnings, Warning{Kind: kind, EntityID: entityID, Reference: ref, MissingID: missing})
}

func (p *Projector) sanitize(notes string) string {
	if p.notes == nil || notes == "" {
		return notes
	}
	return p.notes.Sanitize(notes)
}
