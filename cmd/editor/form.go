package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ebitenui/ebitenui/widget"
)

// form is a column of labelled inputs addressed by name.
type form struct {
	kit       *kit
	Container *widget.Container
	inputs    map[string]*widget.TextInput
	choices   map[string]*choice
}

// choice is a button that cycles through a fixed set of values.
type choice struct {
	btn      *widget.Button
	label    string
	options  []string
	idx      int
	onChange func(string)
}

func (c *choice) refresh() {
	setButtonLabel(c.btn, c.label+": "+c.Value())
}

func (c *choice) Set(v string) {
	for i, o := range c.options {
		if o == v {
			c.idx = i
			break
		}
	}
	c.refresh()
}

func (c *choice) Value() string {
	if len(c.options) == 0 {
		return ""
	}
	return c.options[c.idx]
}

// SetOptions replaces the values, keeping the current one when it is still
// offered.
func (c *choice) SetOptions(options []string) {
	cur := c.Value()
	c.options = options
	c.idx = 0
	c.Set(cur)
}

func newForm(k *kit, title string) *form {
	f := &form{
		kit:       k,
		Container: k.column(4),
		inputs:    map[string]*widget.TextInput{},
		choices:   map[string]*choice{},
	}
	if title != "" {
		f.Container.AddChild(k.label(title))
	}
	return f
}

func (f *form) add(name, label string) *widget.TextInput {
	row := f.kit.row(6)
	lbl := widget.NewLabel(
		widget.LabelOpts.Text(label, f.kit.face, labelColor),
	)
	lbl.GetWidget().MinWidth = 150
	in := f.kit.textInput(180)
	row.AddChild(lbl)
	row.AddChild(in)
	f.Container.AddChild(row)
	f.inputs[name] = in
	return in
}

func (f *form) addChoice(name, label string, options []string, onChange func(string)) *choice {
	c := &choice{label: label, options: options, onChange: onChange}
	c.btn = f.kit.button(label, func() {
		if len(c.options) == 0 {
			return
		}
		c.idx = (c.idx + 1) % len(c.options)
		c.refresh()
		if c.onChange != nil {
			c.onChange(c.Value())
		}
	})
	c.refresh()
	f.Container.AddChild(c.btn)
	f.choices[name] = c
	return c
}

func (f *form) set(name string, v any) {
	if in, ok := f.inputs[name]; ok {
		switch x := v.(type) {
		case float64:
			in.SetText(strconv.FormatFloat(x, 'f', -1, 64))
		default:
			in.SetText(fmt.Sprint(v))
		}
		return
	}
	if c, ok := f.choices[name]; ok {
		c.Set(fmt.Sprint(v))
	}
}

func (f *form) str(name string) string {
	if in, ok := f.inputs[name]; ok {
		return strings.TrimSpace(in.GetText())
	}
	if c, ok := f.choices[name]; ok {
		return c.Value()
	}
	return ""
}

func (f *form) setEnabled(name string, enabled bool) {
	if in, ok := f.inputs[name]; ok {
		in.GetWidget().Disabled = !enabled
	}
	if c, ok := f.choices[name]; ok {
		c.btn.GetWidget().Disabled = !enabled
	}
}

// reader collects parse errors so a form can be read in one pass.
type reader struct {
	f   *form
	err error
}

func (r *reader) int(name string) int {
	s := r.f.str(name)
	v, err := strconv.Atoi(s)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: %q is not a whole number", name, s)
	}
	return v
}

func (r *reader) float(name string) float64 {
	s := r.f.str(name)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: %q is not a number", name, s)
	}
	return v
}

func (r *reader) str(name string) string { return r.f.str(name) }

// parsePairs reads "key=value, key=value" lists used for blackboards.
func parsePairs(s string) ([][2]string, error) {
	var out [][2]string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%q: expected key=value", part)
		}
		out = append(out, [2]string{strings.TrimSpace(k), strings.TrimSpace(v)})
	}
	return out, nil
}
