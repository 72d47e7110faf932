package verify

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

const anchorMarker = ":id="

// Anchors returns the docsify heading anchors (":id=<anchor>") of a body in
// document order.
func Anchors(body []byte) []string {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	anchors := make([]string, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		var line strings.Builder
		lines := h.Lines()
		for i := range lines.Len() {
			seg := lines.At(i)
			line.Write(seg.Value(body))
		}
		if a := anchorOf(line.String()); a != "" {
			anchors = append(anchors, a)
		}
		return gmast.WalkSkipChildren, nil
	})
	return anchors
}

func anchorOf(heading string) string {
	i := strings.LastIndex(heading, anchorMarker)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(heading[i+len(anchorMarker):])
}

// Links returns markdown link destinations and href values of inline HTML
// anchors, in document order.
func Links(body []byte) []string {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	links := make([]string, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Link:
			links = append(links, string(node.Destination))
		case *gmast.RawHTML:
			var raw strings.Builder
			for i := range node.Segments.Len() {
				seg := node.Segments.At(i)
				raw.Write(seg.Value(body))
			}
			links = append(links, hrefs(raw.String())...)
		case *gmast.HTMLBlock:
			var raw strings.Builder
			lines := node.Lines()
			for i := range lines.Len() {
				seg := lines.At(i)
				raw.Write(seg.Value(body))
			}
			links = append(links, hrefs(raw.String())...)
		}
		return gmast.WalkContinue, nil
	})
	return links
}

// hrefs extracts href attributes of <a> elements from an HTML fragment.
func hrefs(fragment string) []string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil
	}
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); href != "" {
				out = append(out, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
