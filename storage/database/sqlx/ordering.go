package sqlxrepos

import (
	"strings"

	"github.com/osisproject0-hub/osis-sub000/core"
)

// orderByClause renders an ORDER BY clause from client-supplied orderings.
// Only whitelisted fields make it into the query; anything else is dropped.
// def is used when nothing survives.
func orderByClause(ords []core.DBOrdering, allowed map[string]string, def string) string {
	parts := make([]string, 0, len(ords))
	for _, ord := range ords {
		col, ok := allowed[ord.Field]
		if !ok {
			continue
		}
		parts = append(parts, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
	}
	if len(parts) == 0 {
		return " ORDER BY " + def
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
