package tables

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/milk9111/akdata/collection"
	"github.com/milk9111/akdata/migrate"
	"github.com/milk9111/akdata/rangegrid"
)

func TestNewEnemyDefaults(t *testing.T) {
	in := DefaultEnemyInput()
	in.Key = "enemy_1001"
	in.Name = "Slug"
	data, err := json.Marshal(NewEnemy(in))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"key":"enemy_1001","value":[{"level":0,"enemyData":{` +
		`"name":{"m_defined":true,"m_value":"Slug"},` +
		`"type":{"m_defined":true,"m_value":"GROUND"},` +
		`"attributes":{"maxHp":{"m_defined":true,"m_value":100},"atk":{"m_defined":true,"m_value":50},` +
		`"def":{"m_defined":true,"m_value":0},"magicResistance":{"m_defined":true,"m_value":0},` +
		`"moveSpeed":{"m_defined":true,"m_value":1},"baseAttackTime":{"m_defined":true,"m_value":1.5}},` +
		`"rangeRadius":{"m_defined":true,"m_value":-1},"skills":[]}}]}`
	if string(data) != want {
		t.Fatalf("unexpected enemy json:\n%s\nwant:\n%s", data, want)
	}
}

func TestEnemySnapsAndInput(t *testing.T) {
	in := DefaultEnemyInput()
	in.Key = "enemy_2"
	in.Name = "Drone"
	in.Type = EnemyFlying
	in.MagicResistPct = 25
	in.MoveSpeed = 1.25
	in.BaseAttackTime = 1.234
	e := NewEnemy(in)
	attrs := e.Value[0].EnemyData.Attributes
	if attrs.MagicResistance.Value != 0.25 {
		t.Errorf("expected magic resistance 0.25, got %v", attrs.MagicResistance.Value)
	}
	if attrs.MoveSpeed.Value != 1.3 {
		t.Errorf("expected move speed 1.3, got %v", attrs.MoveSpeed.Value)
	}
	if attrs.BaseAttackTime.Value != 1.23 {
		t.Errorf("expected attack time 1.23, got %v", attrs.BaseAttackTime.Value)
	}
	back := e.Input()
	if back.MagicResistPct != 25 || back.Type != EnemyFlying || back.Name != "Drone" {
		t.Errorf("unexpected round trip input %+v", back)
	}
}

func TestPositionFor(t *testing.T) {
	cases := map[Profession]Position{
		Caster: Ranged, Sniper: Ranged, Medic: Ranged, Supporter: Ranged,
		Guard: Melee, Defender: Melee, Vanguard: Melee, Specialist: Melee,
	}
	for prof, want := range cases {
		if got := PositionFor(prof); got != want {
			t.Errorf("%s: expected %s, got %s", prof, want, got)
		}
	}
}

func TestNewOperator(t *testing.T) {
	in := DefaultOperatorInput()
	in.CharID = "char_001_amiya"
	in.Name = "Amiya"
	in.Profession = Guard
	in.Rarity = 9
	in.Range.Set(5, 6, true)
	op := NewOperator(in)
	if op.Position != Melee {
		t.Errorf("expected MELEE, got %s", op.Position)
	}
	if op.Rarity != MaxRarity {
		t.Errorf("expected rarity clamped to %d, got %d", MaxRarity, op.Rarity)
	}
	if len(op.Range) != 1 || op.Range[0] != (rangegrid.Offset{Row: 1, Col: 0}) {
		t.Errorf("unexpected range %v", op.Range)
	}
	s := op.BaseStats()
	if s.MaxHP != 1000 || s.Atk != 300 || s.Def != 50 || s.Cost != 10 || s.BlockCnt != 1 || s.RespawnTime != 70 || s.BaseAttackTime != 1.5 {
		t.Errorf("unexpected default stats %+v", s)
	}

	in = op.Input()
	in.Profession = Medic
	op.Apply(in)
	if op.Position != Ranged {
		t.Errorf("position should follow profession, got %s", op.Position)
	}
	if !in.Range.Get(5, 6) {
		t.Errorf("range lost on Input round trip")
	}
}

func TestGenerateSkillID(t *testing.T) {
	cases := []struct {
		op, suffix, want string
	}{
		{"char_002_amiya", "1", "skchr_002_amiya_1"},
		{"custom_op", "burst", "skchr_custom_op_burst"},
		{"char_002_amiya", "  ", ""},
	}
	for _, c := range cases {
		if got := GenerateSkillID(c.op, c.suffix); got != c.want {
			t.Errorf("GenerateSkillID(%q, %q): expected %q, got %q", c.op, c.suffix, c.want, got)
		}
	}
	if got := SkillSuffix("skchr_002_amiya_1", "char_002_amiya"); got != "1" {
		t.Errorf("expected suffix 1, got %q", got)
	}
}

func TestNewSkill(t *testing.T) {
	in := DefaultSkillInput()
	in.OperatorID = "char_002_amiya"
	in.Suffix = "2"
	in.Name = "Spirit Burst"
	in.Duration = 12.25
	in.Blackboard = []Blackboard{{Key: "atk", Value: 0.333}, {Key: "", Value: 1}}
	s := NewSkill(in)
	if s.SkillID != "skchr_002_amiya_2" || s.Duration != 12.3 {
		t.Errorf("unexpected skill %+v", s)
	}
	if len(s.Blackboard) != 1 || s.Blackboard[0].Value != 0.33 {
		t.Errorf("unexpected blackboard %+v", s.Blackboard)
	}
	if s.SkillType != SkillManual || s.SPData.SPType != SPAttack || s.SPData.SPCost != 30 {
		t.Errorf("unexpected defaults %+v", s)
	}
	if got := s.Input().Suffix; got != "2" {
		t.Errorf("expected suffix 2, got %q", got)
	}
}

func TestFileMigratesAndSavesVersionFirst(t *testing.T) {
	root := t.TempDir()
	p := Paths{Root: root}
	if err := os.MkdirAll(p.TablesDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	legacy := `{"enemies":[{"key":"enemy_1","value":[{"level":0,"enemyData":{"name":{"m_defined":true,"m_value":"Slug"}}}]}]}`
	if err := os.WriteFile(p.Enemies(), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := Open(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if tbl.Enemies.Len() != 1 || tbl.Enemies.Items[0].Name() != "Slug" {
		t.Fatalf("unexpected enemies %+v", tbl.Enemies.Items)
	}
	if got := tbl.NeedsSave(); len(got) != 1 || got[0] != p.Enemies() {
		t.Fatalf("expected enemies table flagged for save, got %v", got)
	}
	if err := tbl.SaveAll(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(p.Enemies())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "{\n  \"version\": 1,\n  \"enemies\": [") {
		t.Fatalf("version must be the first key:\n%s", data)
	}
	if !strings.Contains(string(data), `"skills": []`) {
		t.Fatalf("expected empty skills list after migration:\n%s", data)
	}
	if _, err := os.Stat(p.Operators()); !os.IsNotExist(err) {
		t.Fatalf("untouched tables should not be written")
	}

	again, err := Open(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.NeedsSave()) != 0 {
		t.Fatalf("second open should not migrate")
	}
}

func TestOpenEmptyRoot(t *testing.T) {
	tbl, err := Open(Paths{Root: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Enemies.Len() != 0 || tbl.Operators.Len() != 0 || tbl.Skills.Len() != 0 || tbl.Dirty() {
		t.Fatalf("expected empty clean tables")
	}
}

func TestSkillSessionRejectsMissingSuffix(t *testing.T) {
	tbl, err := Open(Paths{Root: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	in := DefaultSkillInput()
	in.OperatorID = "char_1"
	in.Name = "Nameless"
	if _, err := tbl.Skills.Create(NewSkill(in)); !errors.Is(err, collection.ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}

func TestOperatorIDsSorted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operators_table.json")
	doc := `{"version":1,"operators":[{"charId":"char_3"},{"charId":"char_1"},{"name":"no id"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	ids, err := OperatorIDs(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "char_1" || ids[1] != "char_3" {
		t.Fatalf("unexpected ids %v", ids)
	}
	missing, err := OperatorIDs(filepath.Join(t.TempDir(), "none.json"))
	if err != nil || len(missing) != 0 {
		t.Fatalf("missing file should yield no ids, got %v %v", missing, err)
	}
}

func TestCheckSkillOwners(t *testing.T) {
	skills := []Skill{{SkillID: "a", OperatorID: "char_1"}, {SkillID: "b", OperatorID: "char_9"}}
	if got := CheckSkillOwners(skills, []string{"char_1"}); len(got) != 1 {
		t.Fatalf("expected one warning, got %v", got)
	}
}

func writeTables(t *testing.T, files map[string]string) Paths {
	t.Helper()
	p := Paths{Root: t.TempDir()}
	if err := os.MkdirAll(p.TablesDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(p.TablesDir(), name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return p
}

func TestSaveKeepsUnknownKeys(t *testing.T) {
	p := writeTables(t, map[string]string{
		"enemies_table.json": `{"version":1,"enemies":[{"key":"e1","note":"boss","value":[{"level":0,"phase":2,` +
			`"enemyData":{"name":{"m_defined":true,"m_value":"Slug"},"lifePointReduce":{"m_defined":true,"m_value":2},` +
			`"attributes":{"maxHp":{"m_defined":true,"m_value":100},"massLevel":{"m_defined":true,"m_value":1}},"skills":[]}}]}]}`,
		"operators_table.json": `{"version":1,"operators":[{"charId":"char_1","name":"A","tokenKey":"tk",` +
			`"phases":[{"phase":0,"maxLevel":30,"attributesKeyFrames":[{"level":0,"data":{"maxHp":900,"hpRecoveryPerSec":1.5}}]}],` +
			`"skills":[{"skillId":"s1","levels":[],"effects":[{"key":"atk","value":0.3,"valueStr":"30%"}]}]}]}`,
		"skills_table.json": `{"version":1,"skills":[{"skillId":"skchr_1_a","operatorId":"char_1","name":"S","iconId":"ic",` +
			`"spData":{"spType":1,"spCost":30,"maxChargeTime":1},"blackboard":[{"key":"atk","value":0.5,"valueStr":"50%"}]}]}`,
	})
	tbl, err := Open(p)
	if err != nil {
		t.Fatal(err)
	}

	// Edit through the same paths the editor uses.
	e := tbl.Enemies.Items[0]
	in := e.Input()
	in.MaxHP = 200
	e.Apply(in)
	tbl.Enemies.Items[0] = e
	tbl.Enemies.MarkDirty()

	op := tbl.Operators.Items[0]
	oin := op.Input()
	oin.MaxHP = 1000
	op.Apply(oin)
	tbl.Operators.Items[0] = op
	tbl.Operators.MarkDirty()

	sk := tbl.Skills.Items[0]
	sin := sk.Input()
	sin.SPData = SPData{SPType: SPTime, SPCost: 40}
	sin.Blackboard = []Blackboard{{Key: "atk", Value: 0.6}}
	sk.Apply(sin)
	tbl.Skills.Items[0] = sk
	tbl.Skills.MarkDirty()

	if err := tbl.SaveAll(); err != nil {
		t.Fatal(err)
	}

	checks := []struct {
		file string
		path string
		want string
	}{
		{"enemies_table.json", "enemies.0.note", `"boss"`},
		{"enemies_table.json", "enemies.0.value.0.phase", "2"},
		{"enemies_table.json", "enemies.0.value.0.enemyData.lifePointReduce.m_value", "2"},
		{"enemies_table.json", "enemies.0.value.0.enemyData.attributes.massLevel.m_value", "1"},
		{"enemies_table.json", "enemies.0.value.0.enemyData.attributes.maxHp.m_value", "200"},
		{"operators_table.json", "operators.0.tokenKey", `"tk"`},
		{"operators_table.json", "operators.0.phases.0.maxLevel", "30"},
		{"operators_table.json", "operators.0.phases.0.attributesKeyFrames.0.data.hpRecoveryPerSec", "1.5"},
		{"operators_table.json", "operators.0.phases.0.attributesKeyFrames.0.data.maxHp", "1000"},
		{"operators_table.json", "operators.0.skills.0.levels", "[]"},
		{"operators_table.json", "operators.0.skills.0.effects.0.valueStr", `"30%"`},
		{"skills_table.json", "skills.0.iconId", `"ic"`},
		{"skills_table.json", "skills.0.spData.maxChargeTime", "1"},
		{"skills_table.json", "skills.0.spData.spCost", "40"},
		{"skills_table.json", "skills.0.blackboard.0.valueStr", `"50%"`},
		{"skills_table.json", "skills.0.blackboard.0.value", "0.6"},
	}
	for _, c := range checks {
		data, err := os.ReadFile(filepath.Join(p.TablesDir(), c.file))
		if err != nil {
			t.Fatal(err)
		}
		if got := gjson.GetBytes(data, c.path).Raw; got != c.want {
			t.Errorf("%s %s = %s, want %s", c.file, c.path, got, c.want)
		}
	}
}

func TestLoadKeepsUndecodableRecords(t *testing.T) {
	p := writeTables(t, map[string]string{
		"enemies_table.json": `{"version":1,"enemies":[` +
			`{"key":"a","value":[{"level":0,"enemyData":{"attributes":{"maxHp":{"m_defined":true,"m_value":1650.5}}}}]},` +
			`{"key":"b","value":[]}]}`,
	})
	tbl, err := Open(p)
	if err != nil {
		t.Fatal(err)
	}
	if keys := tbl.Enemies.Keys(); len(keys) != 1 || keys[0] != "b" {
		t.Fatalf("editable keys = %v", keys)
	}
	if bad := tbl.Unreadable(); len(bad) != 1 || !strings.Contains(bad[0], "1 record(s)") {
		t.Fatalf("unreadable report = %v", bad)
	}

	in := DefaultEnemyInput()
	in.Key, in.Name = "c", "C"
	if _, err := tbl.Enemies.Create(NewEnemy(in)); err != nil {
		t.Fatal(err)
	}
	if err := tbl.SaveAll(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(p.Enemies())
	if err != nil {
		t.Fatal(err)
	}
	if got := gjson.GetBytes(data, "enemies.#.key").Raw; got != `["b","c","a"]` {
		t.Fatalf("saved keys = %s", got)
	}
	if got := gjson.GetBytes(data, "enemies.2.value.0.enemyData.attributes.maxHp.m_value").Raw; got != "1650.5" {
		t.Fatalf("unreadable record changed: %s", data)
	}
}

func TestSaveKeepsNewerVersion(t *testing.T) {
	p := writeTables(t, map[string]string{
		"enemies_table.json": `{"version":"2.1","enemies":[]}`,
	})
	tbl, err := Open(p)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.EnemyFile.Version.Compare(migrate.Version{2, 1}) != 0 {
		t.Fatalf("loaded version = %s", tbl.EnemyFile.Version)
	}
	tbl.Enemies.MarkDirty()
	if err := tbl.SaveAll(); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(p.Enemies())
	if got := gjson.GetBytes(data, "version").String(); got != "2.1" {
		t.Fatalf("saved version = %s (%s)", got, data)
	}
}
