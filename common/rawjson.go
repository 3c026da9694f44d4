package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
)

// RawField is one object member kept verbatim.
type RawField struct {
	Key   string
	Value json.RawMessage
}

// Extra holds the members of a JSON object that a struct has no field for,
// in file order. Typed records carry one so a load/save cycle keeps data
// written by other tools.
type Extra []RawField

var knownKeys sync.Map // reflect.Type -> []string

func jsonKeys(t reflect.Type) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := knownKeys.Load(t); ok {
		return cached.([]string)
	}
	var keys []string
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				continue
			}
			if name == "" {
				name = f.Name
			}
			keys = append(keys, name)
		}
	}
	knownKeys.Store(t, keys)
	return keys
}

func isKnown(keys []string, key string) bool {
	for _, k := range keys {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// SplitExtra returns the members of the object data whose keys do not match a
// json field of v. Matching is case-insensitive, like encoding/json.
func SplitExtra(data []byte, v any) Extra {
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil
	}
	keys := jsonKeys(reflect.TypeOf(v))
	var out Extra
	res.ForEach(func(k, val gjson.Result) bool {
		if !isKnown(keys, k.String()) {
			out = append(out, RawField{Key: k.String(), Value: json.RawMessage(val.Raw)})
		}
		return true
	})
	return out
}

// UnmarshalKeep decodes data into v and returns what v could not hold. v is
// normally a pointer to a method-free alias of the record type.
func UnmarshalKeep(data []byte, v any) (Extra, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return SplitExtra(data, v), nil
}

// MarshalKeep encodes v and appends the extra members after its own fields.
func MarshalKeep(v any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return data, nil
	}
	return AppendMembers(data, extra)
}

// AppendMembers adds members to the end of the encoded object obj.
func AppendMembers(obj []byte, extra Extra) ([]byte, error) {
	obj = bytes.TrimSpace(obj)
	if len(obj) < 2 || obj[0] != '{' || obj[len(obj)-1] != '}' {
		return nil, fmt.Errorf("append members: not a JSON object")
	}
	var buf bytes.Buffer
	buf.Write(obj[:len(obj)-1])
	empty := len(bytes.TrimSpace(obj[1:len(obj)-1])) == 0
	for _, f := range extra {
		if !empty {
			buf.WriteByte(',')
		}
		empty = false
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(f.Value) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(f.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
