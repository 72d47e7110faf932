package render

import (
	"strings"

	"git.home.luguber.info/inful/gtmdocs/internal/gtm"
	"git.home.luguber.info/inful/gtmdocs/internal/projection"
)

const versionsHeader = "## Versions\n\n" +
	"| Version ID | name                      | Tags | Triggers | Variables | CustomTemplates | Zones |\n" +
	"|------------|---------------------------|------|----------|-----------|-----------------|-------|\n"

// Versions renders the version history table, one row per header in the
// order given.
func Versions(headers []gtm.VersionHeader, links projection.Links) string {
	rows := make([]string, 0, len(headers))
	for _, h := range headers {
		rows = append(rows, "|["+h.ContainerVersionID+"]("+links.Version(h.ContainerVersionID)+")|"+
			h.Name+"|"+h.NumTags+"|"+h.NumTriggers+"|"+h.NumVariables+"|"+
			h.NumCustomTemplates+"|"+h.NumZones+"|")
	}
	return versionsHeader + strings.Join(rows, "\n")
}
