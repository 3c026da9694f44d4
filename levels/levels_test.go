package levels

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/milk9111/akdata/collection"
	"github.com/milk9111/akdata/migrate"
)

func TestRowFlipIsInvolution(t *testing.T) {
	for rows := 1; rows <= MaxGridSize; rows++ {
		for r := 0; r < rows; r++ {
			if got := GameRow(JSONRow(r, rows), rows); got != r {
				t.Fatalf("rows=%d: GameRow(JSONRow(%d)) = %d", rows, r, got)
			}
		}
	}
}

func TestPaintTileIndex(t *testing.T) {
	l := NewLevel("00-01")
	if err := l.PaintTile(0, 2, TileRoad); err != nil {
		t.Fatalf("PaintTile: %v", err)
	}
	// bottom game row is the last stored row
	idx := (DefaultRows-1)*DefaultCols + 2
	if got := l.MapData.Tiles[idx].TileKey; got != "tile_road" {
		t.Fatalf("tile %d = %q, want tile_road", idx, got)
	}
	if got := l.CountTiles(TileRoad); got != 1 {
		t.Fatalf("CountTiles(Road) = %d, want 1", got)
	}
	tile, ok := l.TileAt(0, 2)
	if !ok || tile.PassableMask != 3 || tile.BuildableType != 1 {
		t.Fatalf("TileAt(0,2) = %+v, %v", tile, ok)
	}
}

func TestPaintTileOutOfGrid(t *testing.T) {
	l := NewLevel("x")
	cases := [][2]int{{-1, 0}, {0, -1}, {DefaultRows, 0}, {0, DefaultCols}}
	for _, c := range cases {
		if err := l.PaintTile(c[0], c[1], TileWall); !errors.Is(err, ErrOutOfGrid) {
			t.Fatalf("PaintTile(%d,%d) err = %v, want ErrOutOfGrid", c[0], c[1], err)
		}
	}
	if l.CountTiles(TileForbidden) != DefaultRows*DefaultCols {
		t.Fatalf("out of range paint changed tiles")
	}
}

func TestPaintReplacesWholeRecord(t *testing.T) {
	l := NewLevel("x")
	l.MapData.Tiles[0].PlayerSideMask = 7
	l.MapData.Tiles[0].Blackboard = []byte(`[{"key":"k"}]`)
	if err := l.PaintTile(GameRow(0, l.Rows), 0, TileHighGround); err != nil {
		t.Fatal(err)
	}
	if got, want := l.MapData.Tiles[0], NewTile(TileHighGround); !reflect.DeepEqual(got, want) {
		t.Fatalf("tile = %+v, want %+v", got, want)
	}
}

func TestResize(t *testing.T) {
	l := NewLevel("x")
	l.Modified = false
	if res := l.Resize(DefaultRows, DefaultCols); res.Destructive || l.Modified {
		t.Fatalf("same size resize = %+v, modified %v", res, l.Modified)
	}

	l.Fill(TileRoad)
	res := l.Resize(0, 50)
	if res.Rows != 1 || res.Cols != 20 || !res.Destructive {
		t.Fatalf("Resize(0,50) = %+v", res)
	}
	if res.Discarded != DefaultRows*DefaultCols {
		t.Fatalf("Discarded = %d", res.Discarded)
	}
	if l.Rows != 1 || l.Cols != 20 || len(l.MapData.Tiles) != 20 {
		t.Fatalf("grid %dx%d with %d tiles", l.Rows, l.Cols, len(l.MapData.Tiles))
	}
	if l.CountTiles(TileForbidden) != 20 {
		t.Fatalf("resized grid is not all forbidden")
	}
	if len(l.MapData.Map) != 1 || len(l.MapData.Map[0]) != 20 || l.MapData.Map[0][19] != 19 {
		t.Fatalf("map = %v", l.MapData.Map)
	}
}

func TestGridRoundTrip(t *testing.T) {
	l := NewLevel("rt")
	l.Resize(3, 4)
	l.PaintTile(0, 0, TileStart)
	l.PaintTile(2, 3, TileEnd)
	l.PaintTile(1, 1, TileHole)

	raw, err := l.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode("rt", raw)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rows != 3 || got.Cols != 4 {
		t.Fatalf("decoded %dx%d", got.Rows, got.Cols)
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			a, _ := l.TileAt(r, c)
			b, _ := got.TileAt(r, c)
			if a.TileKey != b.TileKey {
				t.Fatalf("(%d,%d) = %s, want %s", r, c, b.TileKey, a.TileKey)
			}
		}
	}
	if got.Modified {
		t.Fatalf("decoded level is marked modified")
	}
}

func TestSyncFromStorageShortTileList(t *testing.T) {
	raw := []byte(`{"version":1,"mapData":{"map":[[0,1],[2,9]],"tiles":[{"tileKey":"tile_road"},{"tileKey":"tile_wall"},{"tileKey":"tile_hole"}]}}`)
	l, err := Decode("s", raw)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"tile_road", "tile_wall", "tile_hole", "tile_forbidden"}
	for i, k := range want {
		if l.MapData.Tiles[i].TileKey != k {
			t.Fatalf("tile %d = %s, want %s", i, l.MapData.Tiles[i].TileKey, k)
		}
	}
	if string(l.MapData.Tiles[0].Blackboard) != "[]" {
		t.Fatalf("blackboard not normalized: %s", l.MapData.Tiles[0].Blackboard)
	}
}

func TestRouteEditorUndoSequence(t *testing.T) {
	l := NewLevel("r")
	e := NewRouteEditor(l)
	if err := e.Begin(l.AddRoute()); err != nil {
		t.Fatal(err)
	}
	steps := []struct {
		click bool
		row   int
		col   int
		want  RouteStep
	}{
		{true, 0, 0, StepSetEnd},
		{true, 5, 8, StepAddCheckpoints},
		{true, 2, 3, StepAddCheckpoints},
		{false, 0, 0, StepAddCheckpoints},
		{false, 0, 0, StepSetEnd},
		{false, 0, 0, StepSetStart},
	}
	for i, s := range steps {
		if s.click {
			if err := e.Click(s.row, s.col); err != nil {
				t.Fatalf("step %d: %v", i, err)
			}
		} else {
			e.Undo()
		}
		if e.Step() != s.want {
			t.Fatalf("step %d: state %v, want %v", i, e.Step(), s.want)
		}
	}
	r := l.Routes[0]
	if r.StartPosition.IsSet() || r.EndPosition.IsSet() || len(r.Checkpoints) != 0 {
		t.Fatalf("route not cleared: %+v", r)
	}
}

func TestRouteEditorBeginResumes(t *testing.T) {
	l := NewLevel("r")
	e := NewRouteEditor(l)
	i := l.AddRoute()
	e.Begin(i)
	e.Click(1, 1)
	e.End()
	if e.Active() || !l.Routes[i].StartPosition.IsSet() {
		t.Fatalf("End discarded data or stayed active")
	}
	e.Begin(i)
	if e.Step() != StepSetEnd {
		t.Fatalf("resumed at %v, want %v", e.Step(), StepSetEnd)
	}
	e.Click(2, 2)
	e.Click(3, 3)
	e.End()
	e.Begin(i)
	if e.Step() != StepAddCheckpoints || len(l.Routes[i].Checkpoints) != 1 {
		t.Fatalf("resumed at %v with %d checkpoints", e.Step(), len(l.Routes[i].Checkpoints))
	}
	if cp := l.Routes[i].Checkpoints[0]; cp.Type != "MOVE" || cp.Position != (GridPos{3, 3}) {
		t.Fatalf("checkpoint = %+v", cp)
	}
	if err := e.Click(DefaultRows, 0); !errors.Is(err, ErrOutOfGrid) {
		t.Fatalf("click outside grid err = %v", err)
	}
	if err := e.Begin(5); !errors.Is(err, ErrIndex) || e.Active() {
		t.Fatalf("Begin(5) err = %v active %v", err, e.Active())
	}
}

func TestCompletionGating(t *testing.T) {
	l := NewLevel("g")
	if l.CanEnter(StageRoute) || l.CanEnter(StageWave) {
		t.Fatalf("fresh level allows route or wave stage")
	}
	l.SetGridCompleted(true)
	if !l.CanEnter(StageRoute) || l.CanEnter(StageWave) {
		t.Fatalf("grid completed gating wrong")
	}
	if err := l.SetRouteCompleted(true); !errors.Is(err, ErrNoRoutes) {
		t.Fatalf("SetRouteCompleted with no routes err = %v", err)
	}
	if l.EditorMetadata.RouteCompleted {
		t.Fatalf("flag set despite error")
	}
	l.AddRoute()
	if err := l.SetRouteCompleted(true); err != nil {
		t.Fatal(err)
	}
	if !l.CanEnter(StageWave) {
		t.Fatalf("wave stage not reachable")
	}
	if err := l.SetWaveCompleted(true); !errors.Is(err, ErrNoWaves) {
		t.Fatalf("SetWaveCompleted with no waves err = %v", err)
	}
	l.AddWave()
	if err := l.SetWaveCompleted(true); err != nil {
		t.Fatal(err)
	}

	// re-edit does not cascade
	l.SetGridCompleted(false)
	if !l.EditorMetadata.RouteCompleted || !l.EditorMetadata.WaveCompleted {
		t.Fatalf("clearing grid flag cleared later flags")
	}
	if err := l.SetRouteCompleted(false); err != nil {
		t.Fatal(err)
	}
}

func TestWaveOperations(t *testing.T) {
	l := NewLevel("w")
	wi := l.AddWave()
	fi, err := l.AddFragment(wi)
	if err != nil {
		t.Fatal(err)
	}
	a := NewAction()
	a.Key = "enemy_1"
	a.PreDelay = 1.25
	a.Interval = 0.333
	ai, err := l.AddAction(wi, fi, a)
	if err != nil {
		t.Fatal(err)
	}
	got := l.Waves[wi].Fragments[fi].Actions[ai]
	if got.PreDelay != 1.3 || got.Interval != 0.3 || got.ActionType != "SPAWN" {
		t.Fatalf("action = %+v", got)
	}
	if err := l.UpdateWave(wi, 2.04, 0, -1); err != nil || l.Waves[wi].PreDelay != 2.0 {
		t.Fatalf("UpdateWave err %v preDelay %v", err, l.Waves[wi].PreDelay)
	}

	cases := []struct {
		name string
		err  error
	}{
		{"DeleteWave", l.DeleteWave(3)},
		{"DeleteFragment", l.DeleteFragment(wi, 4)},
		{"DeleteAction", l.DeleteAction(wi, fi, 9)},
		{"UpdateAction", l.UpdateAction(wi, fi, -1, a)},
		{"UpdateFragment", l.UpdateFragment(2, 0, 1)},
	}
	for _, c := range cases {
		if !errors.Is(c.err, ErrIndex) {
			t.Fatalf("%s err = %v, want ErrIndex", c.name, c.err)
		}
	}
	if _, err := l.AddFragment(7); !errors.Is(err, ErrIndex) {
		t.Fatalf("AddFragment(7) err = %v", err)
	}

	if err := l.DeleteAction(wi, fi, ai); err != nil {
		t.Fatal(err)
	}
	if err := l.DeleteFragment(wi, fi); err != nil {
		t.Fatal(err)
	}
	if err := l.DeleteWave(wi); err != nil {
		t.Fatal(err)
	}
	if len(l.Waves) != 0 {
		t.Fatalf("waves left: %d", len(l.Waves))
	}
}

func TestDeleteRouteLeavesDanglingIndex(t *testing.T) {
	l := NewLevel("d")
	l.AddRoute()
	l.AddRoute()
	wi := l.AddWave()
	fi, _ := l.AddFragment(wi)
	a := NewAction()
	a.Key = "enemy_1"
	a.RouteIndex = 1
	l.AddAction(wi, fi, a)

	if err := l.DeleteRoute(0); err != nil {
		t.Fatal(err)
	}
	if got := l.Waves[wi].Fragments[fi].Actions[0].RouteIndex; got != 1 {
		t.Fatalf("routeIndex rewritten to %d", got)
	}

	before, _ := l.Encode()
	warns := l.CheckReferences([]string{"enemy_2"})
	after, _ := l.Encode()
	if string(before) != string(after) {
		t.Fatalf("CheckReferences mutated the level")
	}
	if len(warns) != 2 {
		t.Fatalf("warnings = %v, want unknown enemy and dangling route", warns)
	}
	if got := l.CheckReferences(nil); len(got) != 1 {
		t.Fatalf("nil keyset warnings = %v", got)
	}
}

func TestFileName(t *testing.T) {
	for _, id := range []string{"00-01", "a", "main_1.json"} {
		got, ok := ParseFileName(FileName(id))
		if !ok || got != id {
			t.Fatalf("ParseFileName(FileName(%q)) = %q, %v", id, got, ok)
		}
	}
	for _, name := range []string{"level_main_.json", "level_00-01.json", "level_main_01.json.bak", "enemies_table.json"} {
		if _, ok := ParseFileName(name); ok {
			t.Fatalf("ParseFileName(%q) matched", name)
		}
	}
}

func TestStoreSaveKeyOrder(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "levels"), filepath.Join(dir, "migrations"))
	if err != nil {
		t.Fatal(err)
	}
	l := NewLevel("00-01")
	if err := s.Save(l); err != nil {
		t.Fatal(err)
	}
	if l.Modified {
		t.Fatalf("saved level still modified")
	}
	data, err := os.ReadFile(s.Path("00-01"))
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	gjson.ParseBytes(data).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	want := []string{
		"version", "options", "levelId", "mapId", "bgmEvent", "environmentSe",
		"mapData", "tilesDisallowToLocate", "runes", "globalBuffs", "routes",
		"enemies", "enemyDbRefs", "waves", "branches", "predefines",
		"hardPredefines", "excludeCharIdList", "randomSeed", "operaConfig",
		"editorMetadata",
	}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v\nwant %v", keys, want)
	}
	if v := gjson.GetBytes(data, "version").Raw; v != "1" {
		t.Fatalf("version = %s", v)
	}
	if n := gjson.GetBytes(data, "mapData.tiles.#").Int(); n != DefaultRows*DefaultCols {
		t.Fatalf("tiles = %d", n)
	}
	if got := gjson.GetBytes(data, "options.costIncreaseTime").Raw; got != "1" {
		t.Fatalf("costIncreaseTime = %s", got)
	}
}

func TestStoreLoadLegacyFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, filepath.Join(dir, "migrations"))
	if err != nil {
		t.Fatal(err)
	}
	legacy := `{"options":{"characterLimit":5},"mapData":{"map":[[0,1]],"tiles":[{"tileKey":"tile_road"},{"tileKey":"tile_wall"}]}}`
	if err := os.WriteFile(s.Path("old"), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := s.Load("old")
	if err != nil {
		t.Fatal(err)
	}
	if !l.Migrated {
		t.Fatalf("legacy level not reported as migrated")
	}
	if l.Rows != 1 || l.Cols != 2 {
		t.Fatalf("grid %dx%d", l.Rows, l.Cols)
	}
	if l.Options.CharacterLimit != 5 || l.Options.InitialCost != 10 || !l.Options.SteeringEnabled {
		t.Fatalf("options = %+v", l.Options)
	}
	if l.Routes == nil || l.Waves == nil || string(l.Branches) != "{}" {
		t.Fatalf("defaults not filled: routes %v waves %v branches %s", l.Routes, l.Waves, l.Branches)
	}
}

func TestStoreLoadMissingOrCorrupt(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, filepath.Join(dir, "migrations"))
	if err != nil {
		t.Fatal(err)
	}
	os.WriteFile(s.Path("bad"), []byte("{not json"), 0o644)
	for _, id := range []string{"missing", "bad"} {
		l, err := s.Load(id)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		if l.Rows != DefaultRows || l.Cols != DefaultCols || l.Migrated {
			t.Fatalf("%s: %dx%d migrated %v", id, l.Rows, l.Cols, l.Migrated)
		}
	}
}

func TestLevelSet(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "levels"), filepath.Join(dir, "migrations"))
	if err != nil {
		t.Fatal(err)
	}
	set := NewLevelSet(s)
	if err := set.Open(); err != nil {
		t.Fatal(err)
	}
	if set.Len() != 0 {
		t.Fatalf("missing dir has %d levels", set.Len())
	}
	for _, id := range []string{"b", "a"} {
		if _, err := set.Create(id); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := set.Create("a/b"); !errors.Is(err, ErrBadID) {
		t.Fatalf("Create(a/b) err = %v", err)
	}
	if _, err := set.Create(" "); !errors.Is(err, ErrBadID) {
		t.Fatalf("Create(blank) err = %v", err)
	}
	if got := set.Session.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("keys = %v", got)
	}
	if l, _ := set.At(set.Session.Selected()); l.ID != "a" {
		t.Fatalf("selected %s after creating a", l.ID)
	}
	if !set.Dirty() {
		t.Fatalf("new levels not dirty")
	}
	if err := set.SaveAll(); err != nil {
		t.Fatal(err)
	}
	if set.Dirty() {
		t.Fatalf("dirty after save")
	}
	ids, _ := s.List()
	if !reflect.DeepEqual(ids, []string{"a", "b"}) {
		t.Fatalf("files = %v", ids)
	}

	set.Session.RequestDelete(0)
	if _, err := set.ConfirmDelete(); err != nil {
		t.Fatal(err)
	}
	if s.Exists("a") {
		t.Fatalf("deleted level file still on disk")
	}
	if err := set.Open(); err != nil {
		t.Fatal(err)
	}
	if got := set.Session.Keys(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("reopened keys = %v", got)
	}
}

func TestLevelSetAddPasted(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, filepath.Join(dir, "migrations"))
	if err != nil {
		t.Fatal(err)
	}
	set := NewLevelSet(s)
	if _, err := set.Create("01"); err != nil {
		t.Fatal(err)
	}
	src := NewLevel("01")
	src.PaintTile(0, 0, TileRoad)
	raw, err := src.Encode()
	if err != nil {
		t.Fatal(err)
	}

	dup, err := Decode("01", raw)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := set.Add(dup); !errors.Is(err, collection.ErrDuplicateKey) {
		t.Fatalf("Add(duplicate) err = %v", err)
	}

	copied, err := Decode("00", raw)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := set.Add(copied); err != nil {
		t.Fatal(err)
	}
	if got := set.Session.Keys(); !reflect.DeepEqual(got, []string{"00", "01"}) {
		t.Fatalf("keys = %v", got)
	}
	l, _ := set.At(set.Session.Selected())
	if l.ID != "00" || !l.Modified {
		t.Fatalf("selected %s modified=%v", l.ID, l.Modified)
	}
	if tile, _ := l.TileAt(0, 0); tile.TileKey != TileRoad.TileKey() {
		t.Fatalf("pasted tile = %s", tile.TileKey)
	}
}

func TestSetRouteMotion(t *testing.T) {
	l := NewLevel("m")
	i := l.AddRoute()
	l.Modified = false
	if err := l.SetRouteMotion(i, "FLY", true); err != nil {
		t.Fatal(err)
	}
	if r := l.Routes[i]; r.MotionMode != "FLY" || !r.AllowDiagonalMove || !l.Modified {
		t.Fatalf("route = %+v modified=%v", r, l.Modified)
	}
	if err := l.SetRouteMotion(i, "", false); err != nil {
		t.Fatal(err)
	}
	if l.Routes[i].MotionMode != "WALK" {
		t.Fatalf("blank motion mode = %q", l.Routes[i].MotionMode)
	}
	if err := l.SetRouteMotion(3, "WALK", false); !errors.Is(err, ErrIndex) {
		t.Fatalf("out of range err = %v", err)
	}
}

func TestStoreSaveKeepsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, filepath.Join(dir, "migrations"))
	if err != nil {
		t.Fatal(err)
	}
	doc := `{"version":1,"extraInfo":{"author":"x"},` +
		`"options":{"characterLimit":6,"isPredefinedAutoDeploy":true},` +
		`"mapData":{"map":[[0,1]],"width":2,"tiles":[{"tileKey":"tile_road","tileExtra":1},{"tileKey":"tile_wall"}]},` +
		`"routes":[{"motionMode":"WALK","startPosition":{"row":0,"col":0},"endPosition":{"row":0,"col":1},` +
		`"checkpoints":[{"type":"MOVE","position":{"row":0,"col":0},"randomizeReachOffset":false}],"visitEveryCheckPoint":true}],` +
		`"waves":[{"name":"w","fragments":[{"preDelay":1,"actions":[{"key":"e1","count":2,"extraAction":"k"}]}]}]}`
	if err := os.WriteFile(s.Path("keep"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := s.Load("keep")
	if err != nil {
		t.Fatal(err)
	}
	if err := l.UpdateAction(0, 0, 0, l.Waves[0].Fragments[0].Actions[0]); err != nil {
		t.Fatal(err)
	}
	if err := l.SetRouteMotion(0, "FLY", true); err != nil {
		t.Fatal(err)
	}
	o := l.Options
	o.CharacterLimit = 7
	l.SetOptions(o)
	if err := s.Save(l); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(s.Path("keep"))
	if err != nil {
		t.Fatal(err)
	}
	checks := []struct {
		path string
		want string
	}{
		{"extraInfo.author", `"x"`},
		{"options.isPredefinedAutoDeploy", "true"},
		{"options.characterLimit", "7"},
		{"mapData.width", "2"},
		{"mapData.tiles.0.tileExtra", "1"},
		{"routes.0.visitEveryCheckPoint", "true"},
		{"routes.0.motionMode", `"FLY"`},
		{"routes.0.checkpoints.0.randomizeReachOffset", "false"},
		{"waves.0.name", `"w"`},
		{"waves.0.fragments.0.actions.0.extraAction", `"k"`},
	}
	for _, c := range checks {
		if got := gjson.GetBytes(data, c.path).Raw; got != c.want {
			t.Errorf("%s = %s, want %s", c.path, got, c.want)
		}
	}
	var keys []string
	gjson.GetBytes(data, "@this").ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	if keys[0] != "version" || keys[len(keys)-1] != "extraInfo" {
		t.Fatalf("top-level key order = %v", keys)
	}
}

func TestStoreSaveKeepsNewerVersion(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, filepath.Join(dir, "migrations"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path("next"), []byte(`{"version":3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := s.Load("next")
	if err != nil {
		t.Fatal(err)
	}
	if l.Migrated || l.Version.Compare(migrate.Version{3}) != 0 {
		t.Fatalf("newer level: migrated %v version %s", l.Migrated, l.Version)
	}
	if err := s.Save(l); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(s.Path("next"))
	if got := gjson.GetBytes(data, "version").Int(); got != 3 {
		t.Fatalf("saved version = %d", got)
	}
}

func TestStoreRefusesOverwritingUndecodableLevel(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, filepath.Join(dir, "migrations"))
	if err != nil {
		t.Fatal(err)
	}
	bad := `{"version":1,"options":{"characterLimit":"many"}}`
	if err := os.WriteFile(s.Path("odd"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := s.Load("odd")
	if err != nil {
		t.Fatal(err)
	}
	if !l.Unreadable {
		t.Fatalf("level decoded from %s", bad)
	}
	l.Fill(TileRoad)
	if err := s.Save(l); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("save err = %v", err)
	}
	if data, _ := os.ReadFile(s.Path("odd")); string(data) != bad {
		t.Fatalf("file overwritten: %s", data)
	}
}
