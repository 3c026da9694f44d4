package levels

import "fmt"

// Warning describes a wave action whose soft reference points nowhere.
type Warning struct {
	Wave, Fragment, Action int
	Message                string
}

func (w Warning) String() string {
	return fmt.Sprintf("wave %d fragment %d action %d: %s", w.Wave, w.Fragment, w.Action, w.Message)
}

// CheckReferences lists actions with an enemy key outside enemyKeys or a
// route index past the route list. The level is not modified. A nil
// enemyKeys skips the key check.
func (l *Level) CheckReferences(enemyKeys []string) []Warning {
	var known map[string]bool
	if enemyKeys != nil {
		known = make(map[string]bool, len(enemyKeys))
		for _, k := range enemyKeys {
			known[k] = true
		}
	}
	var out []Warning
	for wi, w := range l.Waves {
		for fi, f := range w.Fragments {
			for ai, a := range f.Actions {
				if known != nil && !known[a.Key] {
					out = append(out, Warning{wi, fi, ai, fmt.Sprintf("unknown enemy %q", a.Key)})
				}
				if a.RouteIndex < 0 || a.RouteIndex >= len(l.Routes) {
					out = append(out, Warning{wi, fi, ai, fmt.Sprintf("route %d does not exist (%d routes)", a.RouteIndex, len(l.Routes))})
				}
			}
		}
	}
	return out
}
