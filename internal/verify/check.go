package verify

import (
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/gtmdocs/internal/render"
)

// Finding is a link whose target anchor does not exist.
type Finding struct {
	Document string // document containing the link
	Link     string
	Target   string // document the link resolves to
	Anchor   string
}

func (f Finding) String() string {
	return f.Document + ": " + f.Link + " has no anchor " + f.Anchor + " in " + f.Target
}

// Check resolves every relative "<dir>/?id=<anchor>" link against the
// anchors of the rendered documents. Absolute URLs and links to documents
// outside the set are ignored.
func Check(docs []render.Document) []Finding {
	anchors := make(map[string]map[string]struct{}, len(docs))
	for _, d := range docs {
		set := make(map[string]struct{})
		for _, a := range Anchors([]byte(d.Body)) {
			set[a] = struct{}{}
		}
		anchors[d.Name] = set
	}

	var findings []Finding
	for _, d := range docs {
		for _, link := range Links([]byte(d.Body)) {
			target, anchor, ok := resolve(link)
			if !ok {
				continue
			}
			set, known := anchors[target]
			if !known {
				continue
			}
			if _, found := set[anchor]; !found {
				findings = append(findings, Finding{Document: d.Name, Link: link, Target: target, Anchor: anchor})
			}
		}
	}
	return findings
}

// resolve maps "tag/?id=tag-9" to ("tag/README.md", "tag-9").
func resolve(link string) (string, string, bool) {
	u, err := url.Parse(link)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", "", false
	}
	anchor := u.Query().Get("id")
	if anchor == "" || u.Path == "" {
		return "", "", false
	}
	dir := strings.TrimSuffix(u.Path, "/")
	return path.Join(dir, "README.md"), anchor, true
}
