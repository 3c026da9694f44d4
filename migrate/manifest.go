package migrate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// Manifest is a YAML list of declarative migration steps. Paths use gjson
// syntax; a "#" segment expands to every element of that array.
type Manifest struct {
	Steps []ManifestStep `yaml:"steps"`
}

type ManifestStep struct {
	Kind     Kind                   `yaml:"kind"`
	Name     string                 `yaml:"name"`
	From     Version                `yaml:"from"`
	To       Version                `yaml:"to"`
	Defaults map[string]interface{} `yaml:"defaults"`
	Rename   []RenameOp             `yaml:"rename"`
	Delete   []string               `yaml:"delete"`
	Script   string                 `yaml:"script"`
}

// RenameOp moves the value at Path to the sibling key To.
type RenameOp struct {
	Path string `yaml:"path"`
	To   string `yaml:"to"`
}

func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("migrate: unmarshal manifest: %w", err)
	}
	for i, s := range m.Steps {
		if s.Kind == "" || s.Name == "" {
			return Manifest{}, fmt.Errorf("migrate: manifest step %d: kind and name are required", i)
		}
	}
	return m, nil
}

// RegisterManifests adds every manifest step for r.Kind found in src, in
// manifest name order and then file order.
func RegisterManifests(r *Registry, src Source) error {
	names, err := src.Manifests()
	if err != nil {
		return err
	}
	for _, name := range names {
		data, err := src.Read(name)
		if err != nil {
			return fmt.Errorf("migrate: load %s: %w", name, err)
		}
		m, err := ParseManifest(data)
		if err != nil {
			return fmt.Errorf("%w (%s)", err, name)
		}
		for _, ms := range m.Steps {
			if ms.Kind != r.Kind {
				continue
			}
			step, err := ms.build(src)
			if err != nil {
				return fmt.Errorf("migrate: %s: %w", name, err)
			}
			r.Register(step)
		}
	}
	return nil
}

// Standard builds the registry for kind with every manifest step from the
// embedded set plus overrides in dir.
func Standard(kind Kind, defaultBody []byte, dir string) (*Registry, error) {
	r := NewRegistry(kind, CurrentVersion, defaultBody)
	if err := RegisterManifests(r, Source{Dir: dir}); err != nil {
		return nil, err
	}
	return r, nil
}

func (ms ManifestStep) build(src Source) (Step, error) {
	var script *Step
	if ms.Script != "" {
		code, err := src.ReadScript(ms.Script)
		if err != nil {
			return Step{}, fmt.Errorf("load script %s: %w", ms.Script, err)
		}
		s, err := ScriptStep(ms.Name, ms.From, ms.To, code)
		if err != nil {
			return Step{}, err
		}
		script = &s
	}

	apply := func(raw []byte) ([]byte, error) {
		data := raw
		var err error
		if data, err = applyDefaults(data, ms.Defaults); err != nil {
			return nil, err
		}
		for _, op := range ms.Rename {
			if data, err = applyRename(data, op); err != nil {
				return nil, err
			}
		}
		for _, p := range ms.Delete {
			if data, err = applyDelete(data, p); err != nil {
				return nil, err
			}
		}
		if script != nil {
			return script.Apply(data)
		}
		return data, nil
	}
	return Step{Name: ms.Name, From: ms.From, To: ms.To, Apply: apply}, nil
}

func applyDefaults(data []byte, defaults map[string]interface{}) ([]byte, error) {
	paths := make([]string, 0, len(defaults))
	for p := range defaults {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var err error
	for _, p := range paths {
		for _, target := range expandPath(data, p) {
			if gjson.GetBytes(data, target).Exists() {
				continue
			}
			if data, err = sjson.SetBytes(data, target, defaults[p]); err != nil {
				return nil, fmt.Errorf("set default %s: %w", target, err)
			}
		}
	}
	return data, nil
}

func applyRename(data []byte, op RenameOp) ([]byte, error) {
	var err error
	for _, from := range expandPath(data, op.Path) {
		val := gjson.GetBytes(data, from)
		if !val.Exists() {
			continue
		}
		to := op.To
		if i := strings.LastIndexByte(from, '.'); i >= 0 {
			to = from[:i+1] + op.To
		}
		if !gjson.GetBytes(data, to).Exists() {
			if data, err = sjson.SetRawBytes(data, to, []byte(val.Raw)); err != nil {
				return nil, fmt.Errorf("rename %s: %w", from, err)
			}
		}
		if data, err = sjson.DeleteBytes(data, from); err != nil {
			return nil, fmt.Errorf("rename %s: %w", from, err)
		}
	}
	return data, nil
}

func applyDelete(data []byte, path string) ([]byte, error) {
	targets := expandPath(data, path)
	var err error
	// Reverse so array deletions do not shift later targets.
	for i := len(targets) - 1; i >= 0; i-- {
		if !gjson.GetBytes(data, targets[i]).Exists() {
			continue
		}
		if data, err = sjson.DeleteBytes(data, targets[i]); err != nil {
			return nil, fmt.Errorf("delete %s: %w", targets[i], err)
		}
	}
	return data, nil
}

// expandPath turns "a.#.b.#.c" into concrete paths for the arrays present in
// data. Arrays that do not exist expand to nothing.
func expandPath(data []byte, path string) []string {
	head, tail, found := strings.Cut(path, ".#")
	if !found {
		return []string{path}
	}
	arr := gjson.GetBytes(data, head)
	if !arr.IsArray() {
		return nil
	}
	n := len(arr.Array())
	var out []string
	for i := 0; i < n; i++ {
		concrete := head + "." + strconv.Itoa(i) + tail
		if tail == "" {
			out = append(out, concrete)
			continue
		}
		out = append(out, expandPath(data, concrete)...)
	}
	return out
}
