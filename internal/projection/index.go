package projection

import "git.home.luguber.info/inful/gtmdocs/internal/gtm"

// Index resolves folder and trigger ids to display names.
type Index struct {
	folders  map[string]string
	triggers map[string]string
}

// BuildIndex builds the folder and trigger lookups for a snapshot.
func BuildIndex(cv *gtm.ContainerVersion) Index {
	ix := Index{
		folders:  make(map[string]string),
		triggers: make(map[string]string),
	}
	if cv == nil {
		return ix
	}
	for _, f := range cv.Folder {
		ix.folders[f.FolderID] = f.Name
	}
	for _, t := range cv.Trigger {
		ix.triggers[t.TriggerID] = t.Name
	}
	return ix
}

func (ix Index) FolderName(id string) (string, bool) {
	name, ok := ix.folders[id]
	return name, ok
}

func (ix Index) TriggerName(id string) (string, bool) {
	name, ok := ix.triggers[id]
	return name, ok
}
