package gtm

// Parameter is a typed key/value entry attached to tags, variables and conditions.
type Parameter struct {
	Type  string `json:"type,omitempty"`
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`
}

// Condition is one trigger filter entry. Parameter[0] holds the left operand
// and Parameter[1] the right operand; Type is the comparison operator.
type Condition struct {
	Type      string      `json:"type"`
	Parameter []Parameter `json:"parameter,omitempty"`
}

type Folder struct {
	FolderID string `json:"folderId"`
	Name     string `json:"name"`
}

type Trigger struct {
	TriggerID         string      `json:"triggerId"`
	Name              string      `json:"name"`
	Type              string      `json:"type"`
	Notes             string      `json:"notes,omitempty"`
	ParentFolderID    string      `json:"parentFolderId,omitempty"`
	Filter            []Condition `json:"filter,omitempty"`
	CustomEventFilter []Condition `json:"customEventFilter,omitempty"`
	AutoEventFilter   []Condition `json:"autoEventFilter,omitempty"`
}

type Tag struct {
	TagID             string      `json:"tagId"`
	Name              string      `json:"name"`
	Type              string      `json:"type"`
	Notes             string      `json:"notes,omitempty"`
	ParentFolderID    string      `json:"parentFolderId,omitempty"`
	FiringTriggerID   []string    `json:"firingTriggerId,omitempty"`
	BlockingTriggerID []string    `json:"blockingTriggerId,omitempty"`
	Parameter         []Parameter `json:"parameter,omitempty"`
	Paused            bool        `json:"paused,omitempty"`
}

type Variable struct {
	VariableID     string      `json:"variableId"`
	Name           string      `json:"name"`
	Type           string      `json:"type"`
	Notes          string      `json:"notes,omitempty"`
	ParentFolderID string      `json:"parentFolderId,omitempty"`
	Parameter      []Parameter `json:"parameter,omitempty"`
}

// ContainerVersion is the snapshot of a container the documents are built from.
type ContainerVersion struct {
	ContainerVersionID string     `json:"containerVersionId,omitempty"`
	Name               string     `json:"name,omitempty"`
	Folder             []Folder   `json:"folder,omitempty"`
	Trigger            []Trigger  `json:"trigger,omitempty"`
	Tag                []Tag      `json:"tag,omitempty"`
	Variable           []Variable `json:"variable,omitempty"`
}

type Workspace struct {
	WorkspaceID string `json:"workspaceId"`
	Name        string `json:"name,omitempty"`
}

// WorkspaceList mirrors the workspaces.list response. Only the first
// workspace is used, as the target of editor links.
type WorkspaceList struct {
	Workspace []Workspace `json:"workspace"`
}

// Primary returns the id of the first workspace, or "" when the list is empty.
func (l *WorkspaceList) Primary() string {
	if l == nil || len(l.Workspace) == 0 {
		return ""
	}
	return l.Workspace[0].WorkspaceID
}

// VersionHeader summarises one container version. Counts are kept as the
// API reports them (decimal strings) so they render verbatim.
type VersionHeader struct {
	ContainerVersionID string `json:"containerVersionId"`
	Name               string `json:"name"`
	NumTags            string `json:"numTags"`
	NumTriggers        string `json:"numTriggers"`
	NumVariables       string `json:"numVariables"`
	NumCustomTemplates string `json:"numCustomTemplates"`
	NumZones           string `json:"numZones"`
}
