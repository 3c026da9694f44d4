package migrate

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// ScriptStep compiles a tengo script into a step. The script sees the whole
// document as the global map `payload` and must leave the upgraded document
// in it.
func ScriptStep(name string, from, to Version, src []byte) (Step, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := script.Add("payload", map[string]interface{}{}); err != nil {
		return Step{}, fmt.Errorf("migrate: script %s: %w", name, err)
	}
	compiled, err := script.Compile()
	if err != nil {
		return Step{}, fmt.Errorf("migrate: compile %s: %w", name, err)
	}

	apply := func(raw []byte) ([]byte, error) {
		var payload map[string]interface{}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		run := compiled.Clone()
		if err := run.Set("payload", payload); err != nil {
			return nil, err
		}
		if err := run.Run(); err != nil {
			return nil, err
		}
		out := run.Get("payload").Map()
		if out == nil {
			return nil, errors.New("script did not leave an object in payload")
		}
		return json.Marshal(out)
	}

	return Step{Name: name, From: from, To: to, Apply: apply}, nil
}
