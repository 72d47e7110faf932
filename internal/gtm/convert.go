package gtm

import tagmanager "google.golang.org/api/tagmanager/v2"

func convertContainerVersion(cv *tagmanager.ContainerVersion) *ContainerVersion {
	if cv == nil {
		return &ContainerVersion{}
	}
	out := &ContainerVersion{
		ContainerVersionID: cv.ContainerVersionId,
		Name:               cv.Name,
	}
	for _, f := range cv.Folder {
		if f != nil {
			out.Folder = append(out.Folder, Folder{FolderID: f.FolderId, Name: f.Name})
		}
	}
	for _, t := range cv.Trigger {
		if t != nil {
			out.Trigger = append(out.Trigger, Trigger{
				TriggerID:         t.TriggerId,
				Name:              t.Name,
				Type:              t.Type,
				Notes:             t.Notes,
				ParentFolderID:    t.ParentFolderId,
				Filter:            convertConditions(t.Filter),
				CustomEventFilter: convertConditions(t.CustomEventFilter),
				AutoEventFilter:   convertConditions(t.AutoEventFilter),
			})
		}
	}
	for _, t := range cv.Tag {
		if t != nil {
			out.Tag = append(out.Tag, Tag{
				TagID:             t.TagId,
				Name:              t.Name,
				Type:              t.Type,
				Notes:             t.Notes,
				ParentFolderID:    t.ParentFolderId,
				FiringTriggerID:   t.FiringTriggerId,
				BlockingTriggerID: t.BlockingTriggerId,
				Parameter:         convertParameters(t.Parameter),
				Paused:            t.Paused,
			})
		}
	}
	for _, v := range cv.Variable {
		if v != nil {
			out.Variable = append(out.Variable, Variable{
				VariableID:     v.VariableId,
				Name:           v.Name,
				Type:           v.Type,
				Notes:          v.Notes,
				ParentFolderID: v.ParentFolderId,
				Parameter:      convertParameters(v.Parameter),
			})
		}
	}
	return out
}

// convertConditions keeps nil for absent filters so the trigger's filter
// kind can still be told apart from an empty one.
func convertConditions(in []*tagmanager.Condition) []Condition {
	if in == nil {
		return nil
	}
	out := make([]Condition, 0, len(in))
	for _, c := range in {
		if c == nil {
			continue
		}
		out = append(out, Condition{Type: c.Type, Parameter: convertParameters(c.Parameter)})
	}
	return out
}

func convertParameters(in []*tagmanager.Parameter) []Parameter {
	if in == nil {
		return nil
	}
	out := make([]Parameter, 0, len(in))
	for _, p := range in {
		if p == nil {
			continue
		}
		out = append(out, Parameter{Type: p.Type, Key: p.Key, Value: p.Value})
	}
	return out
}
