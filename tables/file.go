// Package tables holds the typed enemy, operator and skill records and the
// table files they live in.
package tables

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/milk9111/akdata/migrate"
	"github.com/tidwall/gjson"
)

type normalizer interface {
	normalize()
}

// File is one versioned table file, e.g. {"version":1,"enemies":[...]}.
// It satisfies collection.Store.
type File[T any] struct {
	Path     string
	Key      string
	Registry *migrate.Registry
	// Migrated reports that the last Load upgraded the file.
	Migrated bool
	// Version is the data version Save writes. It is only above
	// Registry.Current when the file came from a newer build.
	Version migrate.Version
	// From is the version the file had before the last Load.
	From migrate.Version
	// Unreadable holds records that did not fit T. They are written back
	// unchanged after the editable records.
	Unreadable []json.RawMessage
}

func NewFile[T any](path, key string, kind migrate.Kind, migrationsDir string) (*File[T], error) {
	reg, err := migrate.Standard(kind, []byte(fmt.Sprintf(`{%q:[]}`, key)), migrationsDir)
	if err != nil {
		return nil, err
	}
	return &File[T]{Path: path, Key: key, Registry: reg, Version: reg.Current, From: reg.Current}, nil
}

// Load reads and migrates the table. Each record is decoded on its own; one
// that cannot be decoded is logged and kept aside in Unreadable.
func (f *File[T]) Load() ([]T, error) {
	doc, migrated, err := f.Registry.LoadFile(f.Path)
	if err != nil {
		return nil, err
	}
	f.Migrated = migrated
	f.Version = doc.Version
	f.From = doc.From
	f.Unreadable = nil

	items := []T{}
	res := gjson.GetBytes(doc.Raw, f.Key)
	if !res.IsArray() {
		return items, nil
	}
	i := 0
	res.ForEach(func(_, rec gjson.Result) bool {
		var item T
		if err := json.Unmarshal([]byte(rec.Raw), &item); err != nil {
			log.Printf("tables: %s: %s[%d]: %v, keeping record as is", f.Path, f.Key, i, err)
			f.Unreadable = append(f.Unreadable, json.RawMessage(rec.Raw))
		} else {
			if n, ok := any(&item).(normalizer); ok {
				n.normalize()
			}
			items = append(items, item)
		}
		i++
		return true
	})
	return items, nil
}

// Save writes items followed by any unreadable records. The version is never
// lowered.
func (f *File[T]) Save(items []T) error {
	records := make([]json.RawMessage, 0, len(items)+len(f.Unreadable))
	for _, it := range items {
		data, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("tables: %s: encode %s: %w", f.Path, f.Key, err)
		}
		records = append(records, data)
	}
	records = append(records, f.Unreadable...)

	v := f.Registry.Current
	if f.Version.Compare(v) > 0 {
		v = f.Version
	}
	raw, err := migrate.Encode(v, f.Key, records)
	if err != nil {
		return fmt.Errorf("tables: %s: %w", f.Path, err)
	}
	if err := migrate.WriteFile(f.Path, raw); err != nil {
		return fmt.Errorf("tables: %w", err)
	}
	f.Migrated = false
	f.From = v
	return nil
}

func cloneJSON[T any](v T) T {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	if n, ok := any(&out).(normalizer); ok {
		n.normalize()
	}
	return out
}
