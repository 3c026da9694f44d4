package migrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Encode builds {"version": v, "<key>": payload} with version first.
func Encode(v Version, key string, payload any) ([]byte, error) {
	ver, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	name, err := json.Marshal(key)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	var buf bytes.Buffer
	buf.WriteString(`{"version":`)
	buf.Write(ver)
	buf.WriteByte(',')
	buf.Write(name)
	buf.WriteByte(':')
	buf.Write(body)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteFile indents raw with two spaces and replaces path atomically.
func WriteFile(path string, raw []byte) error {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return fmt.Errorf("indent %s: %w", path, err)
	}
	pretty.WriteByte('\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, pretty.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	log.Printf("Saved %s", path)
	return nil
}
