// Package langfiles maintains the lang/<code>.json dictionaries served to the
// widget. Normalize brings every file in line with the default language so no
// page element is left without a label.
package langfiles

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/dennischat/internal/progress"
)

// DefaultPattern selects the dictionaries inside the language directory.
const DefaultPattern = "*.json"

var i18nAttr = regexp.MustCompile(`data-i18n="([^"]+)"`)

// Options configures Normalize.
type Options struct {
	Dir     string
	Default string
	// IndexHTML, when set, supplies the required keys through its data-i18n
	// attributes. Otherwise the default dictionary's keys are required.
	IndexHTML string
	Pattern   string
	// DryRun reports what would change without writing anything.
	DryRun bool

	Now      func() time.Time
	Reporter progress.Reporter
	Logger   zerolog.Logger
}

// FileResult describes one normalized dictionary.
type FileResult struct {
	Name string
	// Filled lists keys copied from the default language.
	Filled []string
	// Dropped counts keys removed because nothing requires them.
	Dropped int
}

// Result summarizes a Normalize run.
type Result struct {
	Files        []FileResult
	RequiredKeys int
	BackupDir    string
}

// Normalize rewrites every dictionary in opts.Dir so it holds exactly the
// required keys. Missing keys are filled from the default language, keys
// unknown to the default are skipped, and each original is copied into a
// _backup_<timestamp> directory first.
func Normalize(opts Options) (*Result, error) {
	if opts.Default == "" {
		opts.Default = "en"
	}
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Reporter == nil {
		opts.Reporter = progress.Nop{}
	}
	log := opts.Logger.With().Str("component", "langfiles").Logger()

	if info, err := os.Stat(opts.Dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("language directory %s not found", opts.Dir)
	}

	fsys := os.DirFS(opts.Dir)
	names, err := doublestar.Glob(fsys, opts.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("matching %s: %w", opts.Pattern, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no language files match %s in %s", opts.Pattern, opts.Dir)
	}
	sort.Strings(names)

	fallback, err := loadFlat(fsys, opts.Default+".json")
	if err != nil {
		return nil, fmt.Errorf("loading default language (needed as fallback): %w", err)
	}

	var required []string
	if opts.IndexHTML != "" {
		html, err := os.ReadFile(opts.IndexHTML)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", opts.IndexHTML, err)
		}
		required = RequiredKeys(html)
	} else {
		required = sortedKeys(fallback)
	}

	res := &Result{RequiredKeys: len(required)}
	if !opts.DryRun {
		res.BackupDir = filepath.Join(opts.Dir, "_backup_"+opts.Now().Format("20060102_150405"))
		if err := os.MkdirAll(res.BackupDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating backup directory: %w", err)
		}
	}

	opts.Reporter.Start(len(names))
	defer opts.Reporter.Finish()

	for i, name := range names {
		opts.Reporter.Update(i+1, name)

		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return res, fmt.Errorf("reading %s: %w", name, err)
		}
		flat, err := flatten(raw)
		if err != nil {
			return res, fmt.Errorf("parsing %s: %w", name, err)
		}

		fr := FileResult{Name: name}
		final := make(map[string]any, len(required))
		for _, key := range required {
			if v, ok := flat[key]; ok {
				final[key] = v
			} else if v, ok := fallback[key]; ok {
				final[key] = v
				fr.Filled = append(fr.Filled, key)
			}
		}
		for key := range flat {
			if _, ok := final[key]; !ok {
				fr.Dropped++
			}
		}
		res.Files = append(res.Files, fr)

		if opts.DryRun {
			continue
		}
		if err := backup(res.BackupDir, name, raw); err != nil {
			return res, err
		}
		out, err := encode(nest(final))
		if err != nil {
			return res, fmt.Errorf("encoding %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(opts.Dir, filepath.FromSlash(name)), out, 0o644); err != nil {
			return res, fmt.Errorf("writing %s: %w", name, err)
		}
		log.Debug().Str("file", name).Int("filled", len(fr.Filled)).Int("dropped", fr.Dropped).Msg("normalized")
	}

	return res, nil
}

// RequiredKeys returns the data-i18n keys of an HTML page in document order,
// without duplicates.
func RequiredKeys(html []byte) []string {
	seen := map[string]bool{}
	var keys []string
	for _, m := range i18nAttr.FindAllSubmatch(html, -1) {
		k := string(m[1])
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

func loadFlat(fsys fs.FS, name string) (map[string]any, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	return flatten(raw)
}

// flatten turns nested objects into dotted keys. Leaf values keep their JSON
// type; keys that already contain dots are kept as they are.
func flatten(raw []byte) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	out := map[string]any{}
	flattenInto(out, "", obj)
	return out, nil
}

func flattenInto(out map[string]any, prefix string, obj map[string]any) {
	for k, v := range obj {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			flattenInto(out, key, child)
			continue
		}
		out[key] = v
	}
}

// nest rebuilds nested objects from dotted keys. A leaf that is later
// needed as an object is replaced by one.
func nest(flat map[string]any) map[string]any {
	root := map[string]any{}
	for _, key := range sortedKeys(flat) {
		if key == "" {
			continue
		}
		parts := strings.Split(key, ".")
		cur := root
		for _, p := range parts[:len(parts)-1] {
			next, ok := cur[p].(map[string]any)
			if !ok {
				next = map[string]any{}
				cur[p] = next
			}
			cur = next
		}
		cur[parts[len(parts)-1]] = flat[key]
	}
	return root
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func backup(dir, name string, raw []byte) error {
	dst := filepath.Join(dir, filepath.FromSlash(path.Base(name)))
	if err := os.WriteFile(dst, raw, 0o644); err != nil {
		return fmt.Errorf("backing up %s: %w", name, err)
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
