package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestLevelsCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "--root", dir, "levels", "new", "00-01")
	if err != nil {
		t.Fatalf("levels new: %v", err)
	}
	path := filepath.Join(dir, "gamedata", "levels", "level_main_00-01.json")
	if !strings.Contains(out, path) {
		t.Fatalf("output %q does not name %s", out, path)
	}
	if _, err := run(t, "--root", dir, "levels", "new", "00-01"); err == nil {
		t.Fatalf("creating an existing level succeeded")
	}

	out, err = run(t, "--root", dir, "levels", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "00-01\t6x9\troutes=0\twaves=0\t---") {
		t.Fatalf("list output = %q", out)
	}

	if _, err := run(t, "--root", dir, "levels", "delete", "00-01"); !errors.Is(err, errConfirm) {
		t.Fatalf("delete without --yes err = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("level removed without confirmation")
	}
	if _, err := run(t, "--root", dir, "levels", "delete", "00-01", "--yes"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("level file still present")
	}
}

func TestMigrateCommand(t *testing.T) {
	dir := t.TempDir()
	tablesDir := filepath.Join(dir, "gamedata", "tables")
	os.MkdirAll(tablesDir, 0o755)
	enemies := filepath.Join(tablesDir, "enemies_table.json")
	legacy := `{"enemies":[]}`
	if err := os.WriteFile(enemies, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--root", dir, "migrate", "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1 file(s) would be migrated") {
		t.Fatalf("dry run output = %q", out)
	}
	if !strings.Contains(out, "step enemy-skill-lists (0 -> 1)") {
		t.Fatalf("dry run does not list the pending step: %q", out)
	}
	if data, _ := os.ReadFile(enemies); string(data) != legacy {
		t.Fatalf("dry run wrote the file: %s", data)
	}

	out, err = run(t, "--root", dir, "migrate", "--dry-run=false")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1 file(s) migrated") {
		t.Fatalf("migrate output = %q", out)
	}
	data, _ := os.ReadFile(enemies)
	if v := gjson.GetBytes(data, "version").Int(); v != 1 {
		t.Fatalf("version after migrate = %d (%s)", v, data)
	}

	out, err = run(t, "--root", dir, "migrate")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "all files are current") {
		t.Fatalf("second migrate output = %q", out)
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	tablesDir := filepath.Join(dir, "gamedata", "tables")
	os.MkdirAll(tablesDir, 0o755)
	skills := `{"version":1,"skills":[{"skillId":"skchr_ghost_1","operatorId":"char_ghost","name":"Ghost"}]}`
	if err := os.WriteFile(filepath.Join(tablesDir, "skills_table.json"), []byte(skills), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--root", dir, "validate")
	if err != nil {
		t.Fatalf("non-strict validate err = %v", err)
	}
	if !strings.Contains(out, "char_ghost") || !strings.Contains(out, "1 warning(s)") {
		t.Fatalf("validate output = %q", out)
	}
	if _, err := run(t, "--root", dir, "validate", "--strict"); !errors.Is(err, errWarnings) {
		t.Fatalf("strict validate err = %v", err)
	}
}

func TestSkillIDCommand(t *testing.T) {
	out, err := run(t, "skill-id", "char_amiya", "1")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "skchr_amiya_1" {
		t.Fatalf("skill-id output = %q", out)
	}
	if _, err := run(t, "skill-id", "char_amiya", " "); err == nil {
		t.Fatalf("empty suffix accepted")
	}
}

func TestSkillIDUnknownOperator(t *testing.T) {
	dir := t.TempDir()
	tablesDir := filepath.Join(dir, "gamedata", "tables")
	os.MkdirAll(tablesDir, 0o755)
	ops := `{"version":1,"operators":[{"charId":"char_amiya","name":"Amiya"}]}`
	if err := os.WriteFile(filepath.Join(tablesDir, "operators_table.json"), []byte(ops), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--root", dir, "skill-id", "char_amiya", "1")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "warning") {
		t.Fatalf("known operator warned: %q", out)
	}
	out, err = run(t, "--root", dir, "skill-id", "char_ghost", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "skchr_ghost_1") || !strings.Contains(out, "warning: operator char_ghost") {
		t.Fatalf("skill-id output = %q", out)
	}
}
