package migrate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"
)

func TestVersionCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1", "1.0", 0},
		{"0", "1", -1},
		{"1.2", "1.10", -1},
		{"2.0.1", "2", 1},
		{"abc", "0", 0},
		{"v1.1", "1.1", 0},
	}
	for _, c := range cases {
		t.Run(c.a+"_vs_"+c.b, func(t *testing.T) {
			if got := ParseVersion(c.a).Compare(ParseVersion(c.b)); got != c.want {
				t.Fatalf("expected %d, got %d", c.want, got)
			}
		})
	}
}

func TestVersionOf(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Version
	}{
		{"missing", `{"enemies":[]}`, Version{0}},
		{"int", `{"version":1}`, Version{1}},
		{"float", `{"version":1.5}`, Version{1, 5}},
		{"string", `{"version":"2.0"}`, Version{2, 0}},
		{"null", `{"version":null}`, Version{0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := VersionOf([]byte(c.raw)); got.Compare(c.want) != 0 {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
		})
	}
}

func TestLoadStampsVersionWithoutSteps(t *testing.T) {
	r := NewRegistry(KindEnemies, Version{1}, []byte(`{"enemies":[]}`))
	doc, migrated, err := r.Load([]byte(`{"version":0,"enemies":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !migrated {
		t.Fatalf("expected save required after version bump")
	}
	if doc.Version.Compare(Version{1}) != 0 {
		t.Fatalf("expected version 1, got %s", doc.Version)
	}
	if string(doc.Raw) != `{"version":1,"enemies":[]}` {
		t.Fatalf("unexpected document: %s", doc.Raw)
	}
}

func TestLoadUnreadableUsesDefault(t *testing.T) {
	r := NewRegistry(KindEnemies, Version{1}, []byte(`{"enemies":[]}`))
	inputs := []string{"", "   ", "{not json", "[1,2,3]", `"text"`}
	for _, in := range inputs {
		doc, migrated, err := r.Load([]byte(in))
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", in, err)
		}
		if migrated {
			t.Fatalf("input %q: default document should not require save", in)
		}
		if string(doc.Raw) != `{"version":1,"enemies":[]}` {
			t.Fatalf("input %q: unexpected default %s", in, doc.Raw)
		}
	}
}

func TestLoadFileMissing(t *testing.T) {
	r := NewRegistry(KindSkills, Version{1}, []byte(`{"skills":[]}`))
	doc, migrated, err := r.LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if migrated || !gjson.GetBytes(doc.Raw, "skills").IsArray() {
		t.Fatalf("expected default skills document, got %s", doc.Raw)
	}
}

func TestLoadRunsStepsInWindow(t *testing.T) {
	var ran []string
	step := func(name string, from, to int) Step {
		return Step{Name: name, From: Version{from}, To: Version{to}, Apply: func(raw []byte) ([]byte, error) {
			ran = append(ran, name)
			return raw, nil
		}}
	}

	cases := []struct {
		name string
		doc  string
		want []string
	}{
		{"from_zero", `{"version":0}`, []string{"a", "b"}},
		{"missing_version", `{}`, []string{"a", "b"}},
		{"from_one", `{"version":1}`, []string{"b"}},
		{"current", `{"version":2}`, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ran = nil
			r := NewRegistry(KindLevel, Version{2}, nil)
			r.Register(step("a", 0, 1))
			r.Register(step("b", 1, 2))
			r.Register(step("c", 2, 3))
			if _, _, err := r.Load([]byte(c.doc)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(ran) != len(c.want) {
				t.Fatalf("expected steps %v, got %v", c.want, ran)
			}
			for i := range ran {
				if ran[i] != c.want[i] {
					t.Fatalf("expected steps %v, got %v", c.want, ran)
				}
			}
		})
	}
}

func TestLoadStepErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry(KindOperators, Version{1}, nil)
	r.Register(Step{Name: "explode", From: Version{0}, To: Version{1}, Apply: func([]byte) ([]byte, error) {
		return nil, boom
	}})
	_, _, err := r.Load([]byte(`{"version":0,"operators":[]}`))
	if !errors.Is(err, boom) {
		t.Fatalf("expected step error, got %v", err)
	}
}

func TestLoadTwiceIsStable(t *testing.T) {
	r := NewRegistry(KindEnemies, Version{1}, nil)
	r.Register(Step{Name: "noop", From: Version{0}, To: Version{1}, Apply: func(raw []byte) ([]byte, error) {
		return raw, nil
	}})
	first, migrated, err := r.Load([]byte(`{"enemies":[{"key":"enemy_1"}]}`))
	if err != nil || !migrated {
		t.Fatalf("first load: migrated=%v err=%v", migrated, err)
	}
	second, migrated, err := r.Load(first.Raw)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if migrated {
		t.Fatalf("second load should not migrate again")
	}
	if string(second.Raw) != string(first.Raw) {
		t.Fatalf("payload changed: %s vs %s", first.Raw, second.Raw)
	}
}

func TestLoadNewerVersionUntouched(t *testing.T) {
	r := NewRegistry(KindEnemies, Version{1}, nil)
	doc, migrated, err := r.Load([]byte(`{"version":"3.1","enemies":[]}`))
	if err != nil || migrated {
		t.Fatalf("migrated=%v err=%v", migrated, err)
	}
	if doc.Version.Compare(Version{3, 1}) != 0 {
		t.Fatalf("expected version 3.1, got %s", doc.Version)
	}
}

func TestStampInsertsFirst(t *testing.T) {
	got, err := Stamp([]byte(`{"a":1}`), Version{1})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"version":1,"a":1}` {
		t.Fatalf("unexpected %s", got)
	}
	got, err = Stamp([]byte(`{}`), Version{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"version":"1.2"}` {
		t.Fatalf("unexpected %s", got)
	}
}

func TestManifestSteps(t *testing.T) {
	dir := t.TempDir()
	manifest := `steps:
  - kind: test
    name: reshape
    from: 0
    to: 1
    defaults:
      items.#.tags: []
    rename:
      - path: items.#.old
        to: new
    delete:
      - obsolete
    script: count.tengo
`
	if err := os.WriteFile(filepath.Join(dir, "zz_test.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "scripts"), 0o755); err != nil {
		t.Fatal(err)
	}
	script := `payload["count"] = len(payload["items"])`
	if err := os.WriteFile(filepath.Join(dir, "scripts", "count.tengo"), []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry(Kind("test"), Version{1}, nil)
	if err := RegisterManifests(r, Source{Dir: dir}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(r.Steps()) != 1 {
		t.Fatalf("expected 1 step, got %d", len(r.Steps()))
	}

	doc, migrated, err := r.Load([]byte(`{"version":0,"obsolete":true,"items":[{"old":5},{"tags":["x"]}]}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !migrated {
		t.Fatalf("expected migrated")
	}
	checks := []struct {
		path string
		want string
	}{
		{"version", "1"},
		{"count", "2"},
		{"items.0.new", "5"},
		{"items.0.tags", "[]"},
		{"items.1.tags.0", `"x"`},
	}
	for _, c := range checks {
		if got := gjson.GetBytes(doc.Raw, c.path).Raw; got != c.want {
			t.Errorf("%s: expected %s, got %s", c.path, c.want, got)
		}
	}
	for _, gone := range []string{"obsolete", "items.0.old"} {
		if gjson.GetBytes(doc.Raw, gone).Exists() {
			t.Errorf("%s should have been removed: %s", gone, doc.Raw)
		}
	}
}

func TestStandardSkillsUpgrade(t *testing.T) {
	r, err := Standard(KindSkills, []byte(`{"skills":[]}`), "")
	if err != nil {
		t.Fatalf("standard: %v", err)
	}
	doc, migrated, err := r.Load([]byte(`{"skills":[{"skillId":"skchr_a_1","effects":[{"key":"atk","value":0.5}]}]}`))
	if err != nil || !migrated {
		t.Fatalf("migrated=%v err=%v", migrated, err)
	}
	if got := gjson.GetBytes(doc.Raw, "skills.0.blackboard.0.key").String(); got != "atk" {
		t.Errorf("expected blackboard carried over, got %s", doc.Raw)
	}
	if gjson.GetBytes(doc.Raw, "skills.0.effects").Exists() {
		t.Errorf("effects should be renamed: %s", doc.Raw)
	}
	if got := gjson.GetBytes(doc.Raw, "skills.0.spData.spCost").Int(); got != 30 {
		t.Errorf("expected spCost default 30, got %d", got)
	}
	if !gjson.GetBytes(doc.Raw, "skills.0.range").IsArray() {
		t.Errorf("expected range list: %s", doc.Raw)
	}
}

func TestStandardLevelMetadata(t *testing.T) {
	r, err := Standard(KindLevel, nil, "")
	if err != nil {
		t.Fatalf("standard: %v", err)
	}
	doc, _, err := r.Load([]byte(`{"mapData":{"map":[[0]],"tiles":[]}}`))
	if err != nil {
		t.Fatal(err)
	}
	if !gjson.GetBytes(doc.Raw, "editorMetadata.gridCompleted").Exists() {
		t.Fatalf("expected editor metadata defaults: %s", doc.Raw)
	}
}

func TestEncodeAndWriteFile(t *testing.T) {
	raw, err := Encode(Version{1}, "enemies", []map[string]string{{"key": "enemy_1"}})
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"version":1,"enemies":[{"key":"enemy_1"}]}` {
		t.Fatalf("unexpected encoding %s", raw)
	}
	path := filepath.Join(t.TempDir(), "nested", "enemies_table.json")
	if err := WriteFile(path, raw); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"version\": 1,\n  \"enemies\": [\n    {\n      \"key\": \"enemy_1\"\n    }\n  ]\n}\n"
	if string(data) != want {
		t.Fatalf("unexpected file content:\n%s", data)
	}
}

func TestPending(t *testing.T) {
	noop := func(raw []byte) ([]byte, error) { return raw, nil }
	r := NewRegistry(KindLevel, Version{2}, nil)
	r.Register(Step{Name: "a", From: Version{0}, To: Version{1}, Apply: noop})
	r.Register(Step{Name: "b", From: Version{1}, To: Version{2}, Apply: noop})
	r.Register(Step{Name: "future", From: Version{2}, To: Version{3}, Apply: noop})

	cases := []struct {
		from Version
		want []string
	}{
		{Version{0}, []string{"a", "b"}},
		{Version{1}, []string{"b"}},
		{Version{2}, nil},
		{Version{3}, nil},
	}
	for _, c := range cases {
		t.Run(c.from.String(), func(t *testing.T) {
			var got []string
			for _, s := range r.Pending(c.from) {
				got = append(got, s.Name)
			}
			if len(got) != len(c.want) {
				t.Fatalf("pending = %v, want %v", got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("pending = %v, want %v", got, c.want)
				}
			}
		})
	}

	doc, _, err := r.Load([]byte(`{"version":1}`))
	if err != nil {
		t.Fatal(err)
	}
	if doc.From.Compare(Version{1}) != 0 || doc.Version.Compare(Version{2}) != 0 {
		t.Fatalf("from=%s version=%s", doc.From, doc.Version)
	}
}
