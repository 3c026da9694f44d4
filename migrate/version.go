package migrate

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Version is a dotted numeric version. Missing trailing components compare
// as zero, so 1 == 1.0 == 1.0.0.
type Version []int

// ParseVersion never fails; components that are not numbers read as 0.
func ParseVersion(s string) Version {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "v"))
	if s == "" {
		return Version{0}
	}
	parts := strings.Split(s, ".")
	v := make(Version, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		v[i] = n
	}
	return v
}

func (v Version) Compare(o Version) int {
	n := len(v)
	if len(o) > n {
		n = len(o)
	}
	for i := 0; i < n; i++ {
		a, b := 0, 0
		if i < len(v) {
			a = v[i]
		}
		if i < len(o) {
			b = o[i]
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

func (v Version) String() string {
	if len(v) == 0 {
		return "0"
	}
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// MarshalJSON writes single component versions as a JSON integer, which is
// what the game tables expect.
func (v Version) MarshalJSON() ([]byte, error) {
	if len(v) <= 1 {
		n := 0
		if len(v) == 1 {
			n = v[0]
		}
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(v.String())
}

func (v *Version) UnmarshalJSON(data []byte) error {
	*v = versionFromResult(gjson.ParseBytes(data))
	return nil
}

func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	*v = ParseVersion(node.Value)
	return nil
}

// VersionOf reads the top-level "version" key of a JSON document. A missing
// or non-scalar key reads as version 0.
func VersionOf(raw []byte) Version {
	return versionFromResult(gjson.GetBytes(raw, "version"))
}

func versionFromResult(r gjson.Result) Version {
	switch r.Type {
	case gjson.Number:
		if r.Num == math.Trunc(r.Num) && !strings.ContainsAny(r.Raw, ".eE") {
			return Version{int(r.Int())}
		}
		return ParseVersion(r.Raw)
	case gjson.String:
		return ParseVersion(r.Str)
	default:
		return Version{0}
	}
}
