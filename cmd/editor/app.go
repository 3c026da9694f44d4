package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/akdata/config"
	"github.com/milk9111/akdata/levels"
	"github.com/milk9111/akdata/tables"
	"github.com/milk9111/akdata/watch"
)

// saveMute covers the fsnotify events of our own writes.
const saveMute = 2 * time.Second

// project is everything loaded from one data root.
type project struct {
	root   string
	tables *tables.Tables
	levels *levels.LevelSet
}

func openProject(root string) (*project, error) {
	paths := tables.Paths{Root: root}
	t, err := tables.Open(paths)
	if err != nil {
		return nil, err
	}
	store, err := levels.NewStore(paths.LevelsDir(), paths.MigrationsDir())
	if err != nil {
		return nil, err
	}
	set := levels.NewLevelSet(store)
	if err := set.Open(); err != nil {
		return nil, err
	}
	return &project{root: root, tables: t, levels: set}, nil
}

func (p *project) dirs() []string {
	paths := tables.Paths{Root: p.root}
	var out []string
	for _, d := range []string{paths.TablesDir(), paths.LevelsDir(), paths.MigrationsDir()} {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			out = append(out, d)
		}
	}
	return out
}

// App is the editor window.
type App struct {
	cfg       config.Config
	state     *config.State
	stateFile string

	ui      *editorUI
	proj    *project
	tabs    []tab
	current int
	levels  *levelTab
	watcher *watch.Watcher

	switching bool

	status   string
	statusAt time.Time
	changed  map[string]bool
	// scriptsChanged forces a full reopen so migration registries are
	// rebuilt.
	scriptsChanged bool
	quit           bool
	width          int
	height         int
}

func NewApp(cfg config.Config) (*App, error) {
	a := &App{
		cfg:       cfg,
		stateFile: cfg.StateFile,
		changed:   map[string]bool{},
		width:     cfg.WindowWidth,
		height:    cfg.WindowHeight,
	}
	st, err := config.LoadState(a.stateFile)
	if err != nil {
		log.Printf("state: %v", err)
		st = config.DefaultState()
	}
	a.state = st

	a.ui = buildEditorUI(uiActions{
		onTab:      a.switchTab,
		onSelect:   a.selectRecord,
		onNew:      a.newRecord,
		onDelete:   a.deleteRecord,
		onCopy:     a.copyRecord,
		onPaste:    a.pasteRecord,
		onSaveAll:  a.saveAll,
		onReload:   a.requestReload,
		onOpenRoot: a.openRoot,
	})
	if err := a.load(cfg.DataRoot); err != nil {
		return nil, err
	}
	a.restoreState()
	return a, nil
}

// load opens root and rebuilds the tabs. On error the previous project
// stays open.
func (a *App) load(root string) error {
	proj, err := openProject(root)
	if err != nil {
		return fmt.Errorf("open %s: %w", root, err)
	}
	a.proj = proj
	k := a.ui.kit
	t := proj.tables

	enemies := bindTable(newTableTab(k, a, enemyKind(), t.Enemies), t.EnemyFile)
	operators := bindTable(newTableTab(k, a, operatorKind(), t.Operators), t.OperatorFile)
	skills := bindTable(newTableTab(k, a, skillKind(t.OperatorIDs), t.Skills), t.SkillFile)
	a.levels = newLevelTab(k, a, proj.levels, a.cfg.CellSize)
	a.tabs = []tab{enemies, operators, skills, a.levels}

	if orphans := tables.CheckSkillOwners(t.Skills.Items, t.OperatorIDs()); len(orphans) > 0 {
		a.Status("%d skill(s) reference unknown operators: %s", len(orphans), strings.Join(orphans, ", "))
	} else {
		a.Status("Opened %s", root)
	}
	if migrated := t.NeedsSave(); len(migrated) > 0 {
		a.Status("Migrated %d table(s) on load; Save All to write them", len(migrated))
	}
	if bad := t.Unreadable(); len(bad) > 0 {
		a.Status("%s", strings.Join(bad, "; "))
	}

	a.startWatch()
	a.switchTab(a.current)
	return nil
}

// bindTable connects a table tab to the file behind its session. A table
// migrated on load counts as dirty until it is written.
func bindTable[T any](tt *tableTab[T], f *tables.File[T]) *tableTab[T] {
	tt.dirty = func() bool { return tt.session.Dirty || f.Migrated }
	tt.save = tt.session.SaveAll
	tt.reload = tt.session.DiscardAll
	tt.paths = func() []string { return []string{f.Path} }
	return tt
}

func (a *App) startWatch() {
	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
	if !a.cfg.Watch {
		return
	}
	dirs := a.proj.dirs()
	if len(dirs) == 0 {
		return
	}
	w, err := watch.NewWatcher(dirs...)
	if err != nil {
		log.Printf("watch: %v", err)
		return
	}
	a.watcher = w
}

func (a *App) restoreState() {
	for i, name := range tabNames {
		if name == a.state.LastTab {
			a.switchTab(i)
		}
	}
	if tt, ok := parseTileName(a.state.Brush); ok {
		a.levels.brush = tt
		a.levels.brushSel.Set(tt.String())
	}
	if a.state.LastLevel == "" {
		return
	}
	if i := a.proj.levels.Session.Find(a.state.LastLevel); i >= 0 {
		a.levels.Select(i)
		for _, s := range []levels.Stage{levels.StageRoute, levels.StageWave} {
			if s.String() == a.state.Stage && a.levels.level.CanEnter(s) {
				a.levels.switching = true
				a.levels.stageRadio.SetActive(a.levels.stageBtns[s])
				a.levels.switching = false
				a.levels.stage = s
				a.levels.show()
			}
		}
		if a.current == len(a.tabs)-1 {
			a.Refresh()
		}
	}
}

func parseTileName(name string) (levels.TileType, bool) {
	for _, tt := range levels.TileTypes {
		if tt.String() == name {
			return tt, true
		}
	}
	return 0, false
}

func (a *App) saveState() {
	a.state.LastTab = tabNames[a.current]
	a.state.Brush = a.levels.brush.String()
	a.state.LastLevel = ""
	a.state.Stage = ""
	if l := a.levels.level; l != nil {
		a.state.LastLevel = l.ID
		a.state.Stage = a.levels.stage.String()
	}
	if err := config.SaveState(a.stateFile, a.state); err != nil {
		log.Printf("state: %v", err)
	}
}

// Status shows a message in the status line and logs it.
func (a *App) Status(format string, args ...any) {
	a.status = fmt.Sprintf(format, args...)
	a.statusAt = time.Now()
	log.Print(a.status)
}

func (a *App) Confirm(message string, onYes func()) {
	a.ui.confirm.Open(message, "Yes", onYes, nil)
}

func (a *App) Prompt(label, initial string, onEnter func(string)) {
	a.ui.prompt.Open(label, initial, onEnter)
}

// Refresh reloads the record list of the current tab.
func (a *App) Refresh() {
	t := a.tabs[a.current]
	a.ui.list.SetEntries(t.Entries())
	a.ui.list.SetSelected(t.Selected())
}

func (a *App) EnemyKeys() []string   { return a.proj.tables.EnemyKeys() }
func (a *App) OperatorIDs() []string { return a.proj.tables.OperatorIDs() }

func (a *App) switchTab(idx int) {
	if a.switching || idx < 0 || idx >= len(a.tabs) {
		return
	}
	a.current = idx
	a.switching = true
	a.ui.tabRadio.SetActive(a.ui.tabBtns[idx])
	a.switching = false
	a.ui.showPanel(a.tabs[idx].Panel())
	a.Refresh()
}

func (a *App) selectRecord(idx int) { a.tabs[a.current].Select(idx) }

func (a *App) newRecord() { a.tabs[a.current].BeginCreate() }

func (a *App) deleteRecord() {
	t := a.tabs[a.current]
	name, ok := t.RequestDelete(t.Selected())
	if !ok {
		a.Status("Select a record to delete")
		return
	}
	a.ui.confirm.Open(fmt.Sprintf("Delete %s?", name), "Delete", func() {
		a.muteAll(t)
		if err := t.ConfirmDelete(); err != nil {
			a.Status("delete: %v", err)
		}
		a.Refresh()
	}, t.CancelDelete)
}

func (a *App) copyRecord() {
	data, err := a.tabs[a.current].Copy()
	if err == nil {
		err = copyToClipboard(data)
	}
	if err != nil {
		a.Status("copy: %v", err)
		return
	}
	a.Status("Copied to clipboard")
}

func (a *App) pasteRecord() {
	data, err := readClipboard()
	if err == nil {
		err = a.tabs[a.current].Paste(data)
	}
	if err != nil {
		a.Status("paste: %v", err)
		return
	}
	a.Refresh()
}

func (a *App) muteAll(t tab) {
	if a.watcher == nil {
		return
	}
	for _, p := range t.Paths() {
		a.watcher.Mute(p, saveMute)
	}
}

func (a *App) dirty() bool {
	for _, t := range a.tabs {
		if t.Dirty() {
			return true
		}
	}
	return false
}

func (a *App) saveAll() {
	var errs []error
	saved := 0
	for _, t := range a.tabs {
		if !t.Dirty() {
			continue
		}
		a.muteAll(t)
		if err := t.SaveAll(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
			continue
		}
		saved++
	}
	if err := errors.Join(errs...); err != nil {
		a.Status("save failed: %v", err)
	} else if saved == 0 {
		a.Status("Nothing to save")
	} else {
		a.Status("Saved %d tab(s)", saved)
	}
	a.Refresh()
}

// requestReload asks before throwing away unsaved edits.
func (a *App) requestReload() {
	if !a.dirty() {
		a.reload(true)
		return
	}
	a.ui.confirm.Open("Discard unsaved changes and reload from disk?", "Reload", func() { a.reload(true) }, nil)
}

// reload rereads every document. full also reopens the project, picking up
// changed migration scripts.
func (a *App) reload(full bool) {
	full = full || a.scriptsChanged
	a.changed = map[string]bool{}
	a.scriptsChanged = false
	if full {
		if err := a.load(a.proj.root); err != nil {
			a.Status("reload: %v", err)
			return
		}
		a.Status("Reloaded %s", a.proj.root)
		return
	}
	for _, t := range a.tabs {
		if err := t.Reload(); err != nil {
			a.Status("reload %s: %v", t.Name(), err)
			return
		}
	}
	a.Refresh()
	a.Status("Reloaded from disk")
}

func (a *App) openRoot() {
	open := func(root string) {
		root = strings.TrimSpace(root)
		if root == "" {
			return
		}
		if err := a.load(root); err != nil {
			a.Status("%v", err)
			return
		}
		a.changed = map[string]bool{}
	}
	pick := func() {
		root, err := openRootDialog()
		if err != nil {
			a.ui.prompt.Open("Data root:", a.proj.root, open)
			return
		}
		open(root)
	}
	if a.dirty() {
		a.ui.confirm.Open("Discard unsaved changes and open another root?", "Open", pick, nil)
		return
	}
	pick()
}

// pollWatch drains file events and offers a reload once per batch.
func (a *App) pollWatch() {
	if a.watcher == nil {
		return
	}
	for {
		ev, ok := a.watcher.Poll()
		if !ok {
			break
		}
		a.changed[ev.Path] = true
		if ev.Kind == watch.KindMigration {
			a.scriptsChanged = true
		}
	}
	select {
	case err := <-a.watcher.Errors:
		log.Printf("watch: %v", err)
	default:
	}
	if len(a.changed) == 0 || a.ui.confirm.IsOpen() || a.ui.prompt.IsOpen() {
		return
	}
	names := make([]string, 0, len(a.changed))
	for p := range a.changed {
		names = append(names, filepath.Base(p))
	}
	a.changed = map[string]bool{}
	msg := fmt.Sprintf("Changed on disk: %s. Reload?", strings.Join(names, ", "))
	if a.dirty() {
		msg += " Unsaved edits will be lost."
	}
	a.ui.confirm.Open(msg, "Reload", func() { a.reload(false) }, nil)
}

func (a *App) Update() error {
	if a.quit {
		a.saveState()
		if a.watcher != nil {
			a.watcher.Close()
		}
		return ebiten.Termination
	}
	if ebiten.IsWindowBeingClosed() {
		if !a.dirty() {
			a.quit = true
			return nil
		}
		if !a.ui.confirm.IsOpen() {
			a.ui.confirm.Open("There are unsaved changes. Quit without saving?", "Quit", func() { a.quit = true }, nil)
		}
	}
	a.ui.prompt.HandleKeys()
	a.ui.ui.Update()
	a.pollWatch()

	if a.ui.prompt.IsOpen() {
		return nil
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) && inpututil.IsKeyJustPressed(ebiten.KeyS) {
		a.saveAll()
	}
	if a.ui.confirm.IsOpen() || ebuiinput.UIHovered {
		return nil
	}
	a.tabs[a.current].UpdateCanvas(a.canvasArea())
	return nil
}

func (a *App) canvasArea() image.Rectangle {
	return image.Rect(leftPanelWidth, toolbarHeight, a.width-rightPanelWidth, a.height-statusHeight)
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 30, G: 30, B: 36, A: 255})
	a.tabs[a.current].DrawCanvas(screen, a.canvasArea())
	a.ui.ui.Draw(screen)

	vector.FillRect(screen, 0, float32(a.height-statusHeight), float32(a.width), statusHeight, color.RGBA{R: 20, G: 20, B: 20, A: 255}, false)
	line := a.proj.root
	if a.dirty() {
		line += "  [unsaved]"
	}
	if a.status != "" && time.Since(a.statusAt) < 8*time.Second {
		line += "  |  " + a.status
	}
	ebitenutil.DebugPrintAt(screen, line, 8, a.height-statusHeight+4)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.width, a.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
