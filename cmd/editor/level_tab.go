package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/akdata/levels"
)

// waveRef addresses a row of the flattened wave list. Fragment and Action
// are -1 for rows above that depth.
type waveRef struct {
	Wave, Fragment, Action int
}

type levelTab struct {
	host   host
	kit    *kit
	set    *levels.LevelSet
	level  *levels.Level
	stage  levels.Stage
	routes *levels.RouteEditor
	canvas levelCanvas
	brush  levels.TileType

	panel      *widget.Container
	header     *widget.Text
	stageBtns  []*widget.Button
	stageRadio *widget.RadioGroup
	switching  bool
	doneBtns   [3]*widget.Button

	gridPanel *widget.Container
	brushSel  *choice
	sizeForm  *form
	options   *form

	routePanel *widget.Container
	routeList  *entryList
	routeSel   int
	routeInfo  *widget.Text
	routeForm  *form

	wavePanel  *widget.Container
	waveList   *entryList
	waveRows   []waveRef
	waveSel    int
	waveForm   *form
	fragForm   *form
	actionForm *form
	warnings   *widget.Text
}

func newLevelTab(k *kit, h host, set *levels.LevelSet, cellSize int) *levelTab {
	t := &levelTab{
		host:     h,
		kit:      k,
		set:      set,
		canvas:   levelCanvas{cellSize: float64(cellSize), hoverRow: -1, hoverCol: -1},
		brush:    levels.TileRoad,
		routeSel: -1,
		waveSel:  -1,
	}
	t.panel = k.column(6)
	t.header = k.text("No level selected", labelColor.Idle)
	t.panel.AddChild(t.header)

	stageRow := k.row(4)
	for _, s := range []levels.Stage{levels.StageGrid, levels.StageRoute, levels.StageWave} {
		b := k.toggleButton(s.String(), 80)
		t.stageBtns = append(t.stageBtns, b)
		stageRow.AddChild(b)
	}
	t.stageRadio = k.radio(t.stageBtns, func(idx int) { t.enterStage(levels.Stage(idx)) })
	t.panel.AddChild(stageRow)

	doneRow := k.row(4)
	for i := range t.doneBtns {
		i := i
		t.doneBtns[i] = k.button("", func() { t.toggleDone(levels.Stage(i)) })
		doneRow.AddChild(t.doneBtns[i])
	}
	t.panel.AddChild(doneRow)

	t.gridPanel = t.buildGridPanel()
	t.routePanel = t.buildRoutePanel()
	t.wavePanel = t.buildWavePanel()
	t.panel.AddChild(t.gridPanel)
	t.panel.AddChild(t.routePanel)
	t.panel.AddChild(t.wavePanel)
	t.show()
	return t
}

func (t *levelTab) buildGridPanel() *widget.Container {
	k := t.kit
	c := k.column(6)
	brushes := make([]string, len(levels.TileTypes))
	for i, tt := range levels.TileTypes {
		brushes[i] = tt.String()
	}
	tools := newForm(k, "Tiles (left paint, right pick)")
	t.brushSel = tools.addChoice("brush", "Brush", brushes, func(v string) {
		t.brush = levels.TileTypes[indexOf(brushes, v)]
	})
	t.brushSel.Set(t.brush.String())
	tools.Container.AddChild(k.button("Fill grid with brush", func() {
		if t.level == nil {
			return
		}
		brush := t.brush
		t.host.Confirm(fmt.Sprintf("Fill every tile with %s?", brush), func() {
			t.level.Fill(brush)
			t.show()
			t.host.Refresh()
		})
	}))
	c.AddChild(tools.Container)

	t.sizeForm = newForm(k, "Grid size (1-20)")
	t.sizeForm.add("rows", "Rows")
	t.sizeForm.add("cols", "Cols")
	t.sizeForm.Container.AddChild(k.button("Resize", t.resize))
	c.AddChild(t.sizeForm.Container)

	t.options = newForm(k, "Options")
	t.options.add("characterLimit", "Character Limit")
	t.options.add("maxLifePoint", "Max Life Point")
	t.options.add("initialCost", "Initial Cost")
	t.options.add("maxCost", "Max Cost")
	t.options.add("costIncreaseTime", "Cost Increase Time")
	t.options.add("moveMultiplier", "Move Multiplier")
	t.options.add("maxPlayTime", "Max Play Time")
	t.options.Container.AddChild(k.button("Apply options", func() {
		if err := t.applyOptions(); err != nil {
			t.host.Status("options: %v", err)
		}
	}))
	c.AddChild(t.options.Container)
	return c
}

func (t *levelTab) buildRoutePanel() *widget.Container {
	k := t.kit
	c := k.column(6)
	c.AddChild(k.label("Routes"))
	t.routeList = newEntryList(140, func(idx int) {
		t.routeSel = idx
		t.routes.End()
		t.showRoute()
	})
	c.AddChild(t.routeList.list)

	btns := k.row(4)
	btns.AddChild(k.button("Add", func() {
		if t.level == nil {
			return
		}
		t.routeSel = t.level.AddRoute()
		t.beginRoute()
	}))
	btns.AddChild(k.button("Edit", t.beginRoute))
	btns.AddChild(k.button("Done", func() {
		t.routes.End()
		t.refreshRoutes()
	}))
	btns.AddChild(k.button("Delete", func() {
		if t.level == nil || t.routeSel < 0 {
			return
		}
		i := t.routeSel
		t.host.Confirm(fmt.Sprintf("Delete route %d? Wave actions keep their route index.", i), func() {
			t.routes.End()
			if err := t.level.DeleteRoute(i); err != nil {
				t.host.Status("route: %v", err)
			}
			t.routeSel = -1
			t.refreshRoutes()
			t.host.Refresh()
		})
	}))
	c.AddChild(btns)

	t.routeInfo = k.text("", labelColor.Idle)
	c.AddChild(t.routeInfo)

	t.routeForm = newForm(k, "")
	t.routeForm.addChoice("motion", "Motion", levels.MotionModes, nil)
	t.routeForm.addChoice("diagonal", "Diagonal", []string{"false", "true"}, nil)
	t.routeForm.Container.AddChild(k.button("Apply route", func() {
		if err := t.applyRoute(); err != nil {
			t.host.Status("route: %v", err)
		}
	}))
	c.AddChild(t.routeForm.Container)
	return c
}

func (t *levelTab) buildWavePanel() *widget.Container {
	k := t.kit
	c := k.column(6)
	c.AddChild(k.label("Waves"))
	t.waveList = newEntryList(160, func(idx int) {
		t.waveSel = idx
		t.showWaveItem()
	})
	c.AddChild(t.waveList.list)

	btns := k.row(4)
	btns.AddChild(k.button("+Wave", func() {
		if t.level == nil {
			return
		}
		wi := t.level.AddWave()
		t.refreshWaves(waveRef{wi, -1, -1})
	}))
	btns.AddChild(k.button("+Fragment", func() {
		ref, ok := t.selectedWave()
		if !ok {
			t.host.Status("select a wave first")
			return
		}
		fi, err := t.level.AddFragment(ref.Wave)
		if err != nil {
			t.host.Status("wave: %v", err)
			return
		}
		t.refreshWaves(waveRef{ref.Wave, fi, -1})
	}))
	btns.AddChild(k.button("+Action", func() {
		ref, ok := t.selectedWave()
		if !ok || ref.Fragment < 0 {
			t.host.Status("select a fragment first")
			return
		}
		a := levels.NewAction()
		if keys := t.host.EnemyKeys(); len(keys) > 0 {
			a.Key = keys[0]
		}
		ai, err := t.level.AddAction(ref.Wave, ref.Fragment, a)
		if err != nil {
			t.host.Status("wave: %v", err)
			return
		}
		t.refreshWaves(waveRef{ref.Wave, ref.Fragment, ai})
	}))
	btns.AddChild(k.button("Delete", t.deleteWaveItem))
	c.AddChild(btns)

	t.waveForm = newForm(k, "Wave")
	t.waveForm.add("preDelay", "Pre Delay")
	t.waveForm.add("postDelay", "Post Delay")
	t.waveForm.add("maxWait", "Max Wait Next")
	c.AddChild(t.waveForm.Container)

	t.fragForm = newForm(k, "Fragment")
	t.fragForm.add("preDelay", "Pre Delay")
	c.AddChild(t.fragForm.Container)

	t.actionForm = newForm(k, "Action")
	t.actionForm.add("key", "Enemy Key")
	t.actionForm.add("count", "Count")
	t.actionForm.add("preDelay", "Pre Delay")
	t.actionForm.add("interval", "Interval")
	t.actionForm.add("routeIndex", "Route Index")
	t.actionForm.add("weight", "Weight")
	t.actionForm.addChoice("blockFragment", "Block Fragment", []string{"false", "true"}, nil)
	t.actionForm.addChoice("dontBlockWave", "Don't Block Wave", []string{"false", "true"}, nil)
	c.AddChild(t.actionForm.Container)

	c.AddChild(k.button("Apply", func() {
		if err := t.applyWaveItem(); err != nil {
			t.host.Status("wave: %v", err)
		}
	}))
	t.warnings = k.text("", labelColor.Idle)
	c.AddChild(t.warnings)
	return c
}

func (t *levelTab) Name() string             { return "Levels" }
func (t *levelTab) Panel() *widget.Container { return t.panel }
func (t *levelTab) Selected() int            { return t.set.Session.Selected() }

func (t *levelTab) Entries() []listEntry {
	out := make([]listEntry, 0, t.set.Len())
	for i, l := range t.set.Session.Items {
		label := fmt.Sprintf("%s  %dx%d %s", l.ID, l.Rows, l.Cols, progressMarks(l))
		if l.Modified || l.Migrated {
			label += " *"
		}
		out = append(out, listEntry{Index: i, Label: label})
	}
	return out
}

// progressMarks renders the completion flags as "GRW" with dashes for
// unfinished stages.
func progressMarks(l *levels.Level) string {
	m := l.EditorMetadata
	mark := func(done bool, c string) string {
		if done {
			return c
		}
		return "-"
	}
	return "[" + mark(m.GridCompleted, "G") + mark(m.RouteCompleted, "R") + mark(m.WaveCompleted, "W") + "]"
}

func (t *levelTab) Select(i int) {
	l, ok := t.set.At(i)
	if !ok {
		t.set.Session.Close()
		t.open(nil)
		return
	}
	t.set.Session.Select(i)
	t.open(l)
}

func (t *levelTab) open(l *levels.Level) {
	t.level = l
	t.routeSel = -1
	t.waveSel = -1
	if l != nil {
		t.routes = levels.NewRouteEditor(l)
	} else {
		t.routes = nil
	}
	t.stage = levels.StageGrid
	t.switching = true
	t.stageRadio.SetActive(t.stageBtns[0])
	t.switching = false
	t.show()
}

func (t *levelTab) BeginCreate() {
	t.host.Prompt("New level id (e.g. 00-01):", "", func(id string) {
		id = strings.TrimSpace(id)
		l, err := t.set.Create(id)
		if err != nil {
			t.host.Status("level: %v", err)
			return
		}
		t.host.Status("Created level %s", l.ID)
		t.open(l)
		t.host.Refresh()
	})
}

// Submit applies the form of the current stage.
func (t *levelTab) Submit() error {
	if t.level == nil {
		return errors.New("no level selected")
	}
	switch t.stage {
	case levels.StageRoute:
		return t.applyRoute()
	case levels.StageWave:
		return t.applyWaveItem()
	default:
		return t.applyOptions()
	}
}

func (t *levelTab) RequestDelete(i int) (string, bool) {
	if !t.set.Session.RequestDelete(i) {
		return "", false
	}
	p, _ := t.set.Session.Pending()
	return "level " + p.DisplayName + " and its file", true
}

func (t *levelTab) ConfirmDelete() error {
	l, err := t.set.ConfirmDelete()
	if l != nil && l == t.level {
		t.open(nil)
	}
	if err != nil {
		return err
	}
	t.host.Status("Deleted level: %s", l.ID)
	return nil
}

func (t *levelTab) CancelDelete() { t.set.Session.CancelDelete() }

func (t *levelTab) Copy() ([]byte, error) {
	if t.level == nil {
		return nil, errors.New("no level selected")
	}
	raw, err := t.level.Encode()
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.MarshalIndent(v, "", "  ")
}

// Paste asks for an id and adds the clipboard level under it.
func (t *levelTab) Paste(data []byte) error {
	if !json.Valid(data) {
		return errors.New("clipboard does not hold a level")
	}
	t.host.Prompt("Id for pasted level:", "", func(id string) {
		l, err := levels.Decode(strings.TrimSpace(id), data)
		if err == nil {
			l, err = t.set.Add(l)
		}
		if err != nil {
			t.host.Status("paste: %v", err)
			return
		}
		t.host.Status("Pasted level %s", l.ID)
		t.open(l)
		t.host.Refresh()
	})
	return nil
}

func (t *levelTab) Dirty() bool    { return t.set.Dirty() }
func (t *levelTab) SaveAll() error { return t.set.SaveAll() }

func (t *levelTab) Reload() error {
	if err := t.set.DiscardAll(); err != nil {
		return err
	}
	t.open(nil)
	return nil
}

func (t *levelTab) Paths() []string {
	out := make([]string, 0, t.set.Len())
	for _, l := range t.set.Session.Items {
		out = append(out, t.set.Store.Path(l.ID))
	}
	return out
}

func (t *levelTab) enterStage(s levels.Stage) {
	if t.switching || s == t.stage {
		return
	}
	if t.level == nil || !t.level.CanEnter(s) {
		switch s {
		case levels.StageRoute:
			t.host.Status("Mark the grid complete before editing routes")
		case levels.StageWave:
			t.host.Status("Mark grid and routes complete before editing waves")
		default:
			t.host.Status("Select a level first")
		}
		t.switching = true
		t.stageRadio.SetActive(t.stageBtns[t.stage])
		t.switching = false
		return
	}
	if t.routes != nil {
		t.routes.End()
	}
	t.stage = s
	t.show()
}

// toggleDone flips the completion flag of stage s. Clearing never cascades.
func (t *levelTab) toggleDone(s levels.Stage) {
	if t.level == nil {
		return
	}
	m := t.level.EditorMetadata
	var err error
	switch s {
	case levels.StageGrid:
		t.level.SetGridCompleted(!m.GridCompleted)
	case levels.StageRoute:
		err = t.level.SetRouteCompleted(!m.RouteCompleted)
	case levels.StageWave:
		err = t.level.SetWaveCompleted(!m.WaveCompleted)
	}
	switch {
	case errors.Is(err, levels.ErrNoRoutes):
		t.host.Status("Add at least one route first")
	case errors.Is(err, levels.ErrNoWaves):
		t.host.Status("Add at least one wave first")
	case err != nil:
		t.host.Status("%v", err)
	}
	t.show()
	t.host.Refresh()
}

func (t *levelTab) show() {
	has := t.level != nil
	for _, b := range t.stageBtns {
		setVisible(b, has)
	}
	for _, b := range t.doneBtns {
		setVisible(b, has)
	}
	setVisible(t.gridPanel, has && t.stage == levels.StageGrid)
	setVisible(t.routePanel, has && t.stage == levels.StageRoute)
	setVisible(t.wavePanel, has && t.stage == levels.StageWave)
	if !has {
		t.header.Label = "No level selected"
		return
	}
	l := t.level
	t.header.Label = fmt.Sprintf("Level %s  %dx%d  %s", l.ID, l.Rows, l.Cols, progressMarks(l))
	m := l.EditorMetadata
	for i, done := range []bool{m.GridCompleted, m.RouteCompleted, m.WaveCompleted} {
		box := "[ ]"
		if done {
			box = "[x]"
		}
		setButtonLabel(t.doneBtns[i], box+" "+levels.Stage(i).String())
	}
	switch t.stage {
	case levels.StageGrid:
		t.sizeForm.set("rows", l.Rows)
		t.sizeForm.set("cols", l.Cols)
		o := l.Options
		t.options.set("characterLimit", o.CharacterLimit)
		t.options.set("maxLifePoint", o.MaxLifePoint)
		t.options.set("initialCost", o.InitialCost)
		t.options.set("maxCost", o.MaxCost)
		t.options.set("costIncreaseTime", o.CostIncreaseTime)
		t.options.set("moveMultiplier", o.MoveMultiplier)
		t.options.set("maxPlayTime", o.MaxPlayTime)
	case levels.StageRoute:
		t.refreshRoutes()
	case levels.StageWave:
		t.refreshWaves(waveRef{-1, -1, -1})
	}
}

func (t *levelTab) resize() {
	if t.level == nil {
		return
	}
	r := reader{f: t.sizeForm}
	rows, cols := r.int("rows"), r.int("cols")
	if r.err != nil {
		t.host.Status("resize: %v", r.err)
		return
	}
	preview := t.level.PreviewResize(rows, cols)
	if !preview.Destructive {
		t.host.Status("Grid is already %dx%d", preview.Rows, preview.Cols)
		t.show()
		return
	}
	msg := fmt.Sprintf("Resize to %dx%d? Every tile becomes forbidden", preview.Rows, preview.Cols)
	if preview.Discarded > 0 {
		msg += fmt.Sprintf(" (%d painted tiles lost)", preview.Discarded)
	}
	t.host.Confirm(msg+".", func() {
		res := t.level.Resize(rows, cols)
		t.host.Status("Resized level %s to %dx%d", t.level.ID, res.Rows, res.Cols)
		t.show()
		t.host.Refresh()
	})
}

func (t *levelTab) applyOptions() error {
	if t.level == nil {
		return errors.New("no level selected")
	}
	r := reader{f: t.options}
	o := t.level.Options
	o.CharacterLimit = r.int("characterLimit")
	o.MaxLifePoint = r.int("maxLifePoint")
	o.InitialCost = r.int("initialCost")
	o.MaxCost = r.int("maxCost")
	o.CostIncreaseTime = r.float("costIncreaseTime")
	o.MoveMultiplier = r.float("moveMultiplier")
	o.MaxPlayTime = r.float("maxPlayTime")
	if r.err != nil {
		return r.err
	}
	t.level.SetOptions(o)
	t.host.Status("Updated options of %s", t.level.ID)
	t.show()
	t.host.Refresh()
	return nil
}

func (t *levelTab) refreshRoutes() {
	entries := make([]listEntry, len(t.level.Routes))
	for i, r := range t.level.Routes {
		entries[i] = listEntry{Index: i, Label: routeLabel(i, r)}
	}
	t.routeList.SetEntries(entries)
	if t.routeSel >= len(entries) {
		t.routeSel = -1
	}
	t.routeList.SetSelected(t.routeSel)
	t.showRoute()
}

func routeLabel(i int, r levels.Route) string {
	pos := func(p levels.GridPos) string {
		if !p.IsSet() {
			return "?"
		}
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return fmt.Sprintf("%d: %s %s -> %s, %d checkpoints", i, r.MotionMode, pos(r.StartPosition), pos(r.EndPosition), len(r.Checkpoints))
}

func (t *levelTab) showRoute() {
	setVisible(t.routeForm.Container, t.routeSel >= 0)
	switch {
	case t.routes != nil && t.routes.Active():
		t.routeInfo.Label = fmt.Sprintf("Route %d: %s (left click place, right click undo)", t.routes.Index(), t.routes.Step())
	case t.routeSel >= 0:
		t.routeInfo.Label = fmt.Sprintf("Route %d selected. Edit to place points.", t.routeSel)
	default:
		t.routeInfo.Label = "Add or select a route"
	}
	if t.routeSel >= 0 && t.routeSel < len(t.level.Routes) {
		r := t.level.Routes[t.routeSel]
		t.routeForm.set("motion", r.MotionMode)
		t.routeForm.set("diagonal", r.AllowDiagonalMove)
	}
}

func (t *levelTab) beginRoute() {
	if t.level == nil || t.routeSel < 0 {
		t.host.Status("select a route first")
		return
	}
	if err := t.routes.Begin(t.routeSel); err != nil {
		t.routeSel = -1
		t.host.Status("route: %v", err)
	}
	t.refreshRoutes()
	t.host.Refresh()
}

func (t *levelTab) applyRoute() error {
	if t.routeSel < 0 {
		return errors.New("no route selected")
	}
	err := t.level.SetRouteMotion(t.routeSel, t.routeForm.str("motion"), t.routeForm.str("diagonal") == "true")
	if err != nil {
		return err
	}
	t.refreshRoutes()
	t.host.Refresh()
	return nil
}

// refreshWaves rebuilds the flattened wave list and selects sel when it is
// present.
func (t *levelTab) refreshWaves(sel waveRef) {
	t.waveRows = t.waveRows[:0]
	var entries []listEntry
	add := func(ref waveRef, label string) {
		entries = append(entries, listEntry{Index: len(t.waveRows), Label: label})
		t.waveRows = append(t.waveRows, ref)
	}
	for wi, w := range t.level.Waves {
		add(waveRef{wi, -1, -1}, fmt.Sprintf("Wave %d  pre %g post %g", wi+1, w.PreDelay, w.PostDelay))
		for fi, f := range w.Fragments {
			add(waveRef{wi, fi, -1}, fmt.Sprintf("  Fragment %d  pre %g", fi+1, f.PreDelay))
			for ai, a := range f.Actions {
				add(waveRef{wi, fi, ai}, fmt.Sprintf("    %s %s x%d route %d", a.ActionType, a.Key, a.Count, a.RouteIndex))
			}
		}
	}
	t.waveList.SetEntries(entries)
	t.waveSel = -1
	for i, ref := range t.waveRows {
		if ref == sel {
			t.waveSel = i
		}
	}
	t.waveList.SetSelected(t.waveSel)
	t.showWaveItem()

	warns := t.level.CheckReferences(t.host.EnemyKeys())
	lines := make([]string, 0, len(warns))
	for _, w := range warns {
		lines = append(lines, "! "+w.String())
	}
	t.warnings.Label = strings.Join(lines, "\n")
}

func (t *levelTab) selectedWave() (waveRef, bool) {
	if t.level == nil || t.waveSel < 0 || t.waveSel >= len(t.waveRows) {
		return waveRef{}, false
	}
	return t.waveRows[t.waveSel], true
}

func (t *levelTab) showWaveItem() {
	ref, ok := t.selectedWave()
	setVisible(t.waveForm.Container, ok && ref.Fragment < 0)
	setVisible(t.fragForm.Container, ok && ref.Fragment >= 0 && ref.Action < 0)
	setVisible(t.actionForm.Container, ok && ref.Action >= 0)
	if !ok {
		return
	}
	w := t.level.Waves[ref.Wave]
	switch {
	case ref.Fragment < 0:
		t.waveForm.set("preDelay", w.PreDelay)
		t.waveForm.set("postDelay", w.PostDelay)
		t.waveForm.set("maxWait", w.MaxTimeWaitingForNextWave)
	case ref.Action < 0:
		t.fragForm.set("preDelay", w.Fragments[ref.Fragment].PreDelay)
	default:
		a := w.Fragments[ref.Fragment].Actions[ref.Action]
		t.actionForm.set("key", a.Key)
		t.actionForm.set("count", a.Count)
		t.actionForm.set("preDelay", a.PreDelay)
		t.actionForm.set("interval", a.Interval)
		t.actionForm.set("routeIndex", a.RouteIndex)
		t.actionForm.set("weight", a.Weight)
		t.actionForm.set("blockFragment", a.BlockFragment)
		t.actionForm.set("dontBlockWave", a.DontBlockWave)
	}
}

func (t *levelTab) applyWaveItem() error {
	ref, ok := t.selectedWave()
	if !ok {
		return errors.New("nothing selected")
	}
	var err error
	switch {
	case ref.Fragment < 0:
		r := reader{f: t.waveForm}
		pre, post, wait := r.float("preDelay"), r.float("postDelay"), r.float("maxWait")
		if r.err != nil {
			return r.err
		}
		err = t.level.UpdateWave(ref.Wave, pre, post, wait)
	case ref.Action < 0:
		r := reader{f: t.fragForm}
		pre := r.float("preDelay")
		if r.err != nil {
			return r.err
		}
		err = t.level.UpdateFragment(ref.Wave, ref.Fragment, pre)
	default:
		r := reader{f: t.actionForm}
		a := t.level.Waves[ref.Wave].Fragments[ref.Fragment].Actions[ref.Action]
		a.Key = r.str("key")
		a.Count = r.int("count")
		a.PreDelay = r.float("preDelay")
		a.Interval = r.float("interval")
		a.RouteIndex = r.int("routeIndex")
		a.Weight = r.int("weight")
		a.BlockFragment = r.str("blockFragment") == "true"
		a.DontBlockWave = r.str("dontBlockWave") == "true"
		if r.err != nil {
			return r.err
		}
		err = t.level.UpdateAction(ref.Wave, ref.Fragment, ref.Action, a)
	}
	if err != nil {
		return err
	}
	t.refreshWaves(ref)
	t.host.Refresh()
	return nil
}

func (t *levelTab) deleteWaveItem() {
	ref, ok := t.selectedWave()
	if !ok {
		return
	}
	var err error
	next := waveRef{-1, -1, -1}
	switch {
	case ref.Fragment < 0:
		err = t.level.DeleteWave(ref.Wave)
	case ref.Action < 0:
		err = t.level.DeleteFragment(ref.Wave, ref.Fragment)
		next = waveRef{ref.Wave, -1, -1}
	default:
		err = t.level.DeleteAction(ref.Wave, ref.Fragment, ref.Action)
		next = waveRef{ref.Wave, ref.Fragment, -1}
	}
	if err != nil {
		t.host.Status("wave: %v", err)
	}
	t.refreshWaves(next)
	t.host.Refresh()
}

func (t *levelTab) UpdateCanvas(area image.Rectangle) {
	if t.level == nil {
		return
	}
	t.canvas.hover(t.level, area)
	hovering := t.canvas.hoverRow >= 0
	switch t.stage {
	case levels.StageGrid:
		if !hovering {
			return
		}
		gr, c := t.canvas.hoverRow, t.canvas.hoverCol
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			if cur, ok := t.level.TileAt(gr, c); ok && cur.TileKey == t.brush.TileKey() {
				return
			}
			if err := t.level.PaintTile(gr, c, t.brush); err != nil {
				t.host.Status("paint: %v", err)
			}
			t.host.Refresh()
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
			if cur, ok := t.level.TileAt(gr, c); ok {
				if tt, ok := cur.Type(); ok {
					t.brush = tt
					t.brushSel.Set(tt.String())
				}
			}
		}
	case levels.StageRoute:
		if t.routes == nil || !t.routes.Active() {
			return
		}
		if _, _, ok := justClicked(area, ebiten.MouseButtonLeft); ok && hovering {
			if err := t.routes.Click(t.canvas.hoverRow, t.canvas.hoverCol); err != nil {
				t.host.Status("route: %v", err)
			}
			t.refreshRoutes()
			t.host.Refresh()
		}
		if _, _, ok := justClicked(area, ebiten.MouseButtonRight); ok {
			t.routes.Undo()
			t.refreshRoutes()
			t.host.Refresh()
		}
	}
}

func (t *levelTab) DrawCanvas(screen *ebiten.Image, area image.Rectangle) {
	if t.level == nil {
		return
	}
	t.canvas.draw(screen, t.level, area)
	switch t.stage {
	case levels.StageRoute:
		for i := range t.level.Routes {
			t.canvas.drawRoute(screen, t.level, area, &t.level.Routes[i], i == t.routeSel)
		}
	case levels.StageWave:
		hl := -1
		if ref, ok := t.selectedWave(); ok && ref.Action >= 0 {
			hl = t.level.Waves[ref.Wave].Fragments[ref.Fragment].Actions[ref.Action].RouteIndex
		}
		for i := range t.level.Routes {
			t.canvas.drawRoute(screen, t.level, area, &t.level.Routes[i], i == hl)
		}
	}
}
