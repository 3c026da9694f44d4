package tables

import (
	"fmt"
	"sort"
)

func sortStrings(s []string) { sort.Strings(s) }

// CheckSkillOwners reports skills whose operatorId is not in operatorIDs.
// Nothing is modified.
func CheckSkillOwners(skills []Skill, operatorIDs []string) []string {
	known := make(map[string]struct{}, len(operatorIDs))
	for _, id := range operatorIDs {
		known[id] = struct{}{}
	}
	var out []string
	for _, s := range skills {
		if _, ok := known[s.OperatorID]; !ok {
			out = append(out, fmt.Sprintf("skill %s: unknown operator %q", s.SkillID, s.OperatorID))
		}
	}
	return out
}
