package render

import (
	"strings"

	"git.home.luguber.info/inful/gtmdocs/internal/projection"
)

// Triggers renders the trigger page. Each trigger becomes a level-2
// section anchored as trigger-<id>.
func Triggers(records []projection.TriggerRecord) string {
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString("\n## " + r.Name + " :id=" + projection.KindTrigger.Anchor(r.ID) + "\n\n")
		sb.WriteString(`*<span class="trigger-type ` + r.Type + `">` + r.Type + `</span>* `)
		sb.WriteString(r.Folder)
		sb.WriteString(`<span class="edit trigger link"><a href="` + r.Link + `">edit trigger</a></span>` + "\n\n")
		sb.WriteString(r.Notes + "\n")
		if r.Filters != "" {
			sb.WriteString("\n\n#### Filters\n`" + r.Filters + "`")
		}
		sb.WriteString("\n\n#### Tags with this trigger \n" + r.Tags + "\n")
	}
	return sb.String()
}

// Tags renders the tag page.
func Tags(records []projection.TagRecord) string {
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString("\n## " + r.Name)
		if r.Paused {
			sb.WriteString(" <span class='paused'>paused</span>")
		}
		sb.WriteString(" :id=" + projection.KindTag.Anchor(r.ID) + "\n\n")
		sb.WriteString(`*<span class="tag-type ` + r.Type + `">` + r.Type + `</span>* `)
		sb.WriteString(r.Folder)
		sb.WriteString(` <span class="edit tag link"><a href="` + r.Link + `">edit tag</a></span>` + "\n\n")
		sb.WriteString(r.Notes + "\n")
		if r.Content != "" {
			sb.WriteString("#### HTML Content\n\n```html\n" + r.Content + "\n```\n")
		}
		sb.WriteString("\n#### Triggers\n\n" + r.Triggers + "\n")
	}
	return sb.String()
}

// Variables renders the variable page. Custom JavaScript variables get a
// javascript code fence, everything else a Value line.
func Variables(records []projection.VariableRecord) string {
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString("\n## " + r.Name + " :id=" + projection.KindVariable.Anchor(r.ID) + "\n")
		sb.WriteString(`*<span class="variable-type ` + r.Type + `">` + r.Type + `</span>* `)
		sb.WriteString(r.Folder)
		sb.WriteString(` <span class="edit variable link"><a href="` + r.Link + `">edit variable</a></span>` + "\n")
		sb.WriteString(r.Notes + "\n")
		if r.Type == projection.VariableTypeJavaScript {
			sb.WriteString("#### JS Content\n\n```javascript\n" + r.Content + "\n```\n")
		} else {
			sb.WriteString("#### Value\n`" + r.Content + "`\n")
		}
	}
	return sb.String()
}
