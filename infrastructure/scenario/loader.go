// Package scenario finds spec files and decodes the YAML scenarios in them.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"ui_automation/domain/entities"
)

var knownSteps = map[entities.StepType]bool{
	entities.StepOpen: true, entities.StepOpenWithCookie: true, entities.StepSetCookie: true,
	entities.StepReload: true, entities.StepClick: true, entities.StepHover: true,
	entities.StepTypeText: true, entities.StepFillVerified: true, entities.StepClear: true,
	entities.StepCheck: true, entities.StepUncheck: true, entities.StepToggle: true,
	entities.StepSelect: true, entities.StepAssertVisible: true, entities.StepAssertHidden: true,
	entities.StepAssertExists: true, entities.StepAssertAbsent: true, entities.StepAssertText: true,
	entities.StepAssertContains: true, entities.StepAssertValue: true, entities.StepAssertURL: true,
	entities.StepSettle: true, entities.StepWait: true,
}

// needsLocator lists the steps acting on an element.
var needsLocator = map[entities.StepType]bool{
	entities.StepClick: true, entities.StepHover: true, entities.StepTypeText: true,
	entities.StepFillVerified: true, entities.StepClear: true, entities.StepCheck: true,
	entities.StepUncheck: true, entities.StepToggle: true, entities.StepSelect: true,
	entities.StepAssertVisible: true, entities.StepAssertHidden: true, entities.StepAssertExists: true,
	entities.StepAssertAbsent: true, entities.StepAssertText: true, entities.StepAssertContains: true,
	entities.StepAssertValue: true,
}

// Matcher selects spec files by glob patterns. "**" crosses directories,
// "*" does not.
type Matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	var out []glob.Glob
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		variants := []string{pattern}
		// "a/**/b" also matches "a/b" and "**/b" also matches "b".
		if strings.Contains(pattern, "/**/") {
			variants = append(variants, strings.ReplaceAll(pattern, "/**/", "/"))
		}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			variants = append(variants, rest)
			if strings.Contains(rest, "/**/") {
				variants = append(variants, strings.ReplaceAll(rest, "/**/", "/"))
			}
		}
		for _, p := range variants {
			g, err := glob.Compile(p, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			out = append(out, g)
		}
	}
	return out, nil
}

// NewMatcher compiles include and exclude patterns.
func NewMatcher(include, exclude []string) (*Matcher, error) {
	in, err := compileAll(include)
	if err != nil {
		return nil, err
	}
	ex, err := compileAll(exclude)
	if err != nil {
		return nil, err
	}
	return &Matcher{include: in, exclude: ex}, nil
}

func matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Match reports whether the slash separated path is included and not
// excluded.
func (m *Matcher) Match(path string) bool {
	return matchAny(m.include, path) && !matchAny(m.exclude, path)
}

// Discover walks root and returns the matching files, relative to root paths
// matched, sorted.
func (m *Matcher) Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if m.Match(filepath.ToSlash(rel)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover specs under %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// LoadFile decodes every scenario document in a YAML file.
func LoadFile(path string) ([]entities.Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spec: %w", err)
	}
	defer f.Close()

	scenarios, err := Decode(f, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenarios, nil
}

// Decode reads scenarios from r. Documents are separated by "---"; a document
// without a name is named after source and its position.
func Decode(r io.Reader, source string) ([]entities.Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var out []entities.Scenario
	for i := 1; ; i++ {
		var sc entities.Scenario
		err := dec.Decode(&sc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if sc.Name == "" {
			base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
			sc.Name = fmt.Sprintf("%s #%d", base, i)
		}
		sc.Source = source
		if err := Validate(sc); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// Validate checks a scenario can run.
func Validate(sc entities.Scenario) error {
	if len(sc.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	for i, step := range sc.Steps {
		if !knownSteps[step.Type] {
			return fmt.Errorf("scenario %q step %d: unknown type %q", sc.Name, i+1, step.Type)
		}
		if needsLocator[step.Type] && step.Locator == "" {
			return fmt.Errorf("scenario %q step %d: %s needs a locator", sc.Name, i+1, step.Type)
		}
		if (step.Type == entities.StepOpenWithCookie || step.Type == entities.StepSetCookie) && step.Cookie == nil {
			return fmt.Errorf("scenario %q step %d: %s needs a cookie", sc.Name, i+1, step.Type)
		}
	}
	return nil
}

// Load discovers spec files under root and decodes them all.
func Load(root string, m *Matcher) ([]entities.Scenario, error) {
	files, err := m.Discover(root)
	if err != nil {
		return nil, err
	}
	var out []entities.Scenario
	for _, f := range files {
		scenarios, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		out = append(out, scenarios...)
	}
	return out, nil
}
