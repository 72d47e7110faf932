package projection

import "fmt"

// Kind identifies an entity kind and owns its anchor and path conventions.
type Kind string

const (
	KindTrigger  Kind = "trigger"
	KindTag      Kind = "tag"
	KindVariable Kind = "variable"
)

// Anchor returns the in-document anchor id, e.g. "tag-9".
func (k Kind) Anchor(id string) string {
	return string(k) + "-" + id
}

// RelativeLink returns the cross-document link to an entity, e.g. "tag/?id=tag-9".
func (k Kind) RelativeLink(id string) string {
	return string(k) + "/?id=" + k.Anchor(id)
}

// Links builds absolute Tag Manager UI URLs for one container and workspace.
type Links struct {
	AccountID   string
	ContainerID string
	WorkspaceID string
}

// Editor returns the edit URL of an entity in the configured workspace.
func (l Links) Editor(kind Kind, id string) string {
	return fmt.Sprintf("https://tagmanager.google.com/#/container/accounts/%s/containers/%s/workspaces/%s/%ss/%s",
		l.AccountID, l.ContainerID, l.WorkspaceID, kind, id)
}

// Version returns the URL of a container version.
func (l Links) Version(id string) string {
	return fmt.Sprintf("https://tagmanager.google.com/#/versions/accounts/%s/containers/%s/versions/%s",
		l.AccountID, l.ContainerID, id)
}
