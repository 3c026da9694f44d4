package common

import (
	"encoding/json"
	"testing"

	"github.com/tidwall/gjson"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
	Note  string `json:"-"`
	Extra Extra  `json:"-"`
}

func TestSplitExtra(t *testing.T) {
	data := []byte(`{"name":"a","Count":2,"massLevel":1,"tags":["x"],"Note":"n"}`)
	got := SplitExtra(data, &sample{})
	want := []string{"massLevel", "tags", "Note"}
	if len(got) != len(want) {
		t.Fatalf("extra = %v, want keys %v", got, want)
	}
	for i, k := range want {
		if got[i].Key != k {
			t.Fatalf("extra[%d] = %s, want %s", i, got[i].Key, k)
		}
	}
	if string(got[1].Value) != `["x"]` {
		t.Fatalf("tags raw = %s", got[1].Value)
	}
	if SplitExtra([]byte(`[1,2]`), &sample{}) != nil {
		t.Fatalf("non-object input produced extras")
	}
}

func TestMarshalKeepRoundTrip(t *testing.T) {
	var s sample
	extra, err := UnmarshalKeep([]byte(`{"name":"a","lifePointReduce":1,"a.b":{"c":true}}`), &s)
	if err != nil {
		t.Fatal(err)
	}
	s.Name = "b"
	out, err := MarshalKeep(s, extra)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(out) {
		t.Fatalf("invalid output %s", out)
	}
	if gjson.GetBytes(out, "name").String() != "b" {
		t.Fatalf("name not updated: %s", out)
	}
	if gjson.GetBytes(out, "lifePointReduce").Int() != 1 {
		t.Fatalf("lifePointReduce lost: %s", out)
	}
	if !gjson.GetBytes(out, `a\.b.c`).Bool() {
		t.Fatalf("dotted key lost: %s", out)
	}
}

func TestAppendMembers(t *testing.T) {
	cases := []struct {
		name string
		obj  string
		want string
	}{
		{"empty", `{}`, `{"k":1}`},
		{"fields", `{"a":0}`, `{"a":0,"k":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := AppendMembers([]byte(tc.obj), Extra{{Key: "k", Value: json.RawMessage("1")}})
			if err != nil {
				t.Fatal(err)
			}
			if string(out) != tc.want {
				t.Fatalf("got %s, want %s", out, tc.want)
			}
		})
	}
	if _, err := AppendMembers([]byte(`[1]`), nil); err == nil {
		t.Fatalf("array accepted")
	}
}
