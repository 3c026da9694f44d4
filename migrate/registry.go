package migrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// CurrentVersion is the data version this build reads and writes.
var CurrentVersion = Version{1}

// Kind names one family of data files. Each kind has its own registry.
type Kind string

const (
	KindEnemies   Kind = "enemies"
	KindOperators Kind = "operators"
	KindSkills    Kind = "skills"
	KindLevel     Kind = "level"
)

// Step upgrades a whole document. Apply must be pure and idempotent.
type Step struct {
	Name  string
	From  Version
	To    Version
	Apply func(raw []byte) ([]byte, error)
}

// Document is a loaded JSON object whose version has been normalized.
// From is the version found in the input.
type Document struct {
	Version Version
	From    Version
	Raw     []byte
}

type Registry struct {
	Kind    Kind
	Current Version
	// body is the default document without its version key.
	body  []byte
	steps []Step
}

// NewRegistry creates an empty registry. defaultBody is the JSON object used
// when no readable document exists, e.g. {"enemies":[]}.
func NewRegistry(kind Kind, current Version, defaultBody []byte) *Registry {
	if len(bytes.TrimSpace(defaultBody)) == 0 {
		defaultBody = []byte("{}")
	}
	return &Registry{Kind: kind, Current: current, body: defaultBody}
}

func (r *Registry) Register(s Step) {
	r.steps = append(r.steps, s)
}

func (r *Registry) Steps() []Step {
	out := make([]Step, len(r.steps))
	copy(out, r.steps)
	return out
}

// Pending lists the steps Load runs for a document at version from, in
// registration order. A current or newer document has none.
func (r *Registry) Pending(from Version) []Step {
	if from.Compare(r.Current) >= 0 {
		return nil
	}
	var out []Step
	for _, s := range r.Steps() {
		if s.From.Compare(from) < 0 || s.To.Compare(r.Current) > 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Default returns a fresh document stamped with the current version.
func (r *Registry) Default() Document {
	raw, err := Stamp(r.body, r.Current)
	if err != nil {
		raw = []byte(fmt.Sprintf(`{"version":%s}`, mustVersionJSON(r.Current)))
	}
	return Document{Version: r.Current, From: r.Current, Raw: raw}
}

// Load normalizes raw to the current version. Unreadable input yields the
// default document and no error. The returned bool reports that the version
// changed and the document should be written back. Step errors are returned
// unrecovered.
func (r *Registry) Load(raw []byte) (Document, bool, error) {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 || !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		log.Printf("migrate: %s: unreadable document, using defaults", r.Kind)
		return r.Default(), false, nil
	}

	ver := VersionOf(data)
	switch c := ver.Compare(r.Current); {
	case c == 0:
		return Document{Version: ver, From: ver, Raw: data}, false, nil
	case c > 0:
		log.Printf("migrate: %s: document version %s is newer than %s, loading as is", r.Kind, ver, r.Current)
		return Document{Version: ver, From: ver, Raw: data}, false, nil
	}

	log.Printf("migrate: %s: upgrading from v%s to v%s", r.Kind, ver, r.Current)
	for _, s := range r.Pending(ver) {
		log.Printf("migrate: %s: running %s (%s -> %s)", r.Kind, s.Name, s.From, s.To)
		out, err := s.Apply(data)
		if err != nil {
			return Document{}, false, fmt.Errorf("migrate %s: step %s: %w", r.Kind, s.Name, err)
		}
		data = out
	}

	stamped, err := Stamp(data, r.Current)
	if err != nil {
		return Document{}, false, fmt.Errorf("migrate %s: stamp version: %w", r.Kind, err)
	}
	return Document{Version: r.Current, From: ver, Raw: stamped}, true, nil
}

// LoadFile is Load for a file on disk. A missing file is treated like
// unreadable content.
func (r *Registry) LoadFile(path string) (Document, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("migrate: %s: %s not found, using defaults", r.Kind, path)
			return r.Default(), false, nil
		}
		return Document{}, false, fmt.Errorf("migrate %s: read %s: %w", r.Kind, path, err)
	}
	return r.Load(data)
}

// Stamp sets the top-level version of a JSON object. A version key that is
// not present is inserted as the first key.
func Stamp(raw []byte, v Version) ([]byte, error) {
	enc, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if gjson.GetBytes(raw, "version").Exists() {
		return sjson.SetRawBytes(raw, "version", enc)
	}

	body := bytes.TrimSpace(raw)
	if len(body) == 0 || body[0] != '{' {
		return nil, errors.New("document is not a JSON object")
	}
	rest := bytes.TrimSpace(body[1:])
	out := make([]byte, 0, len(body)+len(enc)+12)
	out = append(out, `{"version":`...)
	out = append(out, enc...)
	if len(rest) > 0 && rest[0] != '}' {
		out = append(out, ',')
	}
	out = append(out, rest...)
	return out, nil
}

func mustVersionJSON(v Version) string {
	b, _ := json.Marshal(v)
	return string(b)
}
