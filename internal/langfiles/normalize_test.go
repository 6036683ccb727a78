package langfiles

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func readNested(t *testing.T, path string) map[string]any {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	return out
}

var fixedNow = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC) }

func TestRequiredKeys(t *testing.T) {
	html := `<h1 data-i18n="hero.title">x</h1><p data-i18n="hero.sub"></p><span data-i18n="hero.title"></span>`
	got := RequiredKeys([]byte(html))
	if strings.Join(got, ",") != "hero.title,hero.sub" {
		t.Errorf("got %v", got)
	}
}

func TestNormalizeFromIndex(t *testing.T) {
	dir := t.TempDir()
	langDir := filepath.Join(dir, "lang")
	if err := os.Mkdir(langDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, langDir, "en.json", `{"nav":{"home":"Home","about":"About"},"footer.note":"Hi","unused":"x"}`)
	writeFile(t, langDir, "de.json", `{"nav":{"home":"Start"},"legacy":"alt"}`)
	index := writeFile(t, dir, "index.html", `<a data-i18n="nav.home"></a><a data-i18n="nav.about"></a><p data-i18n="footer.note"></p><b data-i18n="ghost"></b>`)

	res, err := Normalize(Options{Dir: langDir, Default: "en", IndexHTML: index, Now: fixedNow})
	if err != nil {
		t.Fatal(err)
	}
	if res.RequiredKeys != 4 || len(res.Files) != 2 {
		t.Fatalf("result = %+v", res)
	}

	var de FileResult
	for _, f := range res.Files {
		if f.Name == "de.json" {
			de = f
		}
	}
	if strings.Join(de.Filled, ",") != "nav.about,footer.note" || de.Dropped != 1 {
		t.Errorf("de result = %+v", de)
	}

	got := readNested(t, filepath.Join(langDir, "de.json"))
	nav, _ := got["nav"].(map[string]any)
	if nav["home"] != "Start" || nav["about"] != "About" {
		t.Errorf("nav = %v", got["nav"])
	}
	footer, _ := got["footer"].(map[string]any)
	if footer["note"] != "Hi" {
		t.Errorf("footer = %v", got["footer"])
	}
	if _, ok := got["legacy"]; ok {
		t.Error("unrequired key kept")
	}
	if _, ok := got["ghost"]; ok {
		t.Error("key missing from the default should be skipped")
	}

	en := readNested(t, filepath.Join(langDir, "en.json"))
	if _, ok := en["unused"]; ok {
		t.Error("default dictionary should also be trimmed to required keys")
	}

	backup := filepath.Join(langDir, "_backup_20260301_123000", "de.json")
	raw, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if !strings.Contains(string(raw), "legacy") {
		t.Errorf("backup should hold the original, got %s", raw)
	}
	if res.BackupDir != filepath.Dir(backup) {
		t.Errorf("BackupDir = %s", res.BackupDir)
	}
}

func TestNormalizeWithoutIndexUsesDefaultKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "en.json", `{"chat":{"title":"Chat","send":"Send"},"items":["a","b"]}`)
	writeFile(t, dir, "ar.json", `{"chat":{"title":"دردشة"}}`)

	res, err := Normalize(Options{Dir: dir, Now: fixedNow})
	if err != nil {
		t.Fatal(err)
	}
	if res.RequiredKeys != 3 {
		t.Errorf("required = %d", res.RequiredKeys)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "ar.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "دردشة") {
		t.Errorf("non-ASCII text should be written unescaped: %s", raw)
	}
	got := readNested(t, filepath.Join(dir, "ar.json"))
	chat := got["chat"].(map[string]any)
	if chat["send"] != "Send" {
		t.Errorf("chat = %v", chat)
	}
	if items, ok := got["items"].([]any); !ok || len(items) != 2 {
		t.Errorf("array leaves should keep their type, got %#v", got["items"])
	}
}

func TestNormalizeDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "en.json", `{"a":"A","b":"B"}`)
	orig := `{"a":"x"}`
	writeFile(t, dir, "fr.json", orig)

	res, err := Normalize(Options{Dir: dir, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.BackupDir != "" {
		t.Error("dry run should not create a backup")
	}
	raw, _ := os.ReadFile(filepath.Join(dir, "fr.json"))
	if string(raw) != orig {
		t.Errorf("dry run modified file: %s", raw)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("dry run left extra entries: %d", len(entries))
	}
}

func TestNormalizeErrors(t *testing.T) {
	if _, err := Normalize(Options{Dir: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("expected error for missing directory")
	}

	empty := t.TempDir()
	if _, err := Normalize(Options{Dir: empty}); err == nil {
		t.Error("expected error for directory without json files")
	}

	noDefault := t.TempDir()
	writeFile(t, noDefault, "de.json", `{}`)
	if _, err := Normalize(Options{Dir: noDefault}); err == nil {
		t.Error("expected error when the default dictionary is missing")
	}

	bad := t.TempDir()
	writeFile(t, bad, "en.json", `{"a":"A"}`)
	writeFile(t, bad, "es.json", `[1,2]`)
	if _, err := Normalize(Options{Dir: bad, Now: fixedNow}); err == nil {
		t.Error("expected error for a non-object dictionary")
	}
}

func TestNest(t *testing.T) {
	got := nest(map[string]any{"a": "leaf", "a.b": "deep", "c.d.e": 1.0})
	a, ok := got["a"].(map[string]any)
	if !ok || a["b"] != "deep" {
		t.Errorf("a = %#v", got["a"])
	}
	c := got["c"].(map[string]any)["d"].(map[string]any)
	if c["e"] != 1.0 {
		t.Errorf("c = %#v", got["c"])
	}
}
