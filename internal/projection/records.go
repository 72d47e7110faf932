package projection

// TriggerRecord is the render-ready form of a trigger.
type TriggerRecord struct {
	ID      string
	Name    string
	Type    string
	Link    string
	Notes   string
	Folder  string
	Filters string
	// Tags lists the tags firing on this trigger as markdown bullets.
	Tags string
}

// TagRecord is the render-ready form of a tag.
type TagRecord struct {
	ID       string
	Name     string
	Type     string
	Link     string
	Notes    string
	Folder   string
	Triggers string
	Content  string
	Paused   bool
}

// VariableRecord is the render-ready form of a variable.
type VariableRecord struct {
	ID      string
	Name    string
	Type    string
	Link    string
	Notes   string
	Folder  string
	Content string
}

// Warning records a reference that could not be resolved.
type Warning struct {
	Kind      Kind
	EntityID  string
	Reference string // "folder" or "trigger"
	MissingID string
}

func (w Warning) String() string {
	return string(w.Kind) + " " + w.EntityID + " references unknown " + w.Reference + " " + w.MissingID
}
