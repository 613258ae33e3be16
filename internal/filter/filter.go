// Package filter decides which filesystem paths appear in the filtered
// structure output. The rule set is assembled once at startup and the
// include predicate is a pure function of the path and that rule set.
package filter

import (
	"path/filepath"
	"strings"

	"github.com/billoapp/structree/internal/utils"
)

// PatternKind classifies an auto-generated-file pattern.
type PatternKind int

const (
	// PatternKindExactName matches the base name exactly.
	PatternKindExactName PatternKind = iota
	// PatternKindSuffix matches any base name ending with the pattern value.
	PatternKindSuffix
)

// wildcardPrefix marks a raw pattern as a suffix pattern.
const wildcardPrefix = "*"

// Pattern is a single auto-generated-file rule with an explicit kind.
type Pattern struct {
	Kind  PatternKind
	Value string
}

// ParsePattern classifies a raw pattern string. A leading asterisk denotes a
// suffix pattern whose value is the remainder; every other string is an
// exact base-name match.
func ParsePattern(rawPattern string) Pattern {
	if strings.HasPrefix(rawPattern, wildcardPrefix) {
		return Pattern{Kind: PatternKindSuffix, Value: strings.TrimPrefix(rawPattern, wildcardPrefix)}
	}
	return Pattern{Kind: PatternKindExactName, Value: rawPattern}
}

// Matches reports whether the pattern matches the provided base name.
func (pattern Pattern) Matches(baseName string) bool {
	switch pattern.Kind {
	case PatternKindSuffix:
		return strings.HasSuffix(baseName, pattern.Value)
	default:
		return baseName == pattern.Value
	}
}

// defaultExcludedDirectoryNames lists dependency, build, VCS, and editor
// cache folder names that never appear in the filtered structure.
var defaultExcludedDirectoryNames = []string{
	"node_modules", ".next", ".git", ".firebase", ".vercel",
	".github", "__pycache__", "dist", "build", ".cache",
	".vscode", ".idea", ".DS_Store", "coverage", ".yarn", "dev-tools", "supabase", "database",
}

// defaultExcludedFileNames lists OS metadata files, environment files, and lockfiles.
var defaultExcludedFileNames = []string{
	".DS_Store", "Thumbs.db", ".gitignore", ".gitattributes",
	".env", ".env.local", ".env.production", "package-lock.json",
	"yarn.lock", "pnpm-lock.yaml", "*.log", "*.tmp",
}

// defaultExcludedSuffixes lists extensions of map, log, temp, and image files.
var defaultExcludedSuffixes = []string{
	".map", ".log", ".tmp", ".cache", ".ico", ".png", ".jpg", ".svg",
}

// defaultAutoGeneratedPatterns lists files produced by build tooling and
// project scaffolding.
var defaultAutoGeneratedPatterns = []string{
	"asset-manifest.json", "robots.txt", "manifest.json",
	"favicon.ico", "logo192.png", "logo512.png", "*.css.map",
	"*.js.map", "LICENSE.txt", "reportWebVitals.ts",
	"setupTests.ts", "App.test.tsx", "react-app-env.d.ts",
}

// hardExcludedSegments are path segments suppressed regardless of the other rules.
var hardExcludedSegments = []string{"build", "static"}

// RuleSet holds the exclusion configuration consulted by the include predicate.
type RuleSet struct {
	directoryNames map[string]struct{}
	fileNames      map[string]struct{}
	suffixes       map[string]struct{}
	patterns       []Pattern
}

// NewDefaultRuleSet returns a rule set populated with the built-in exclusions.
func NewDefaultRuleSet() *RuleSet {
	ruleSet := &RuleSet{
		directoryNames: make(map[string]struct{}),
		fileNames:      make(map[string]struct{}),
		suffixes:       make(map[string]struct{}),
	}
	ruleSet.AddDirectoryNames(defaultExcludedDirectoryNames...)
	ruleSet.AddFileNames(defaultExcludedFileNames...)
	ruleSet.AddSuffixes(defaultExcludedSuffixes...)
	ruleSet.AddPatterns(defaultAutoGeneratedPatterns...)
	return ruleSet
}

// AddDirectoryNames extends the excluded directory-name set.
func (ruleSet *RuleSet) AddDirectoryNames(directoryNames ...string) {
	for _, directoryName := range directoryNames {
		if directoryName == "" {
			continue
		}
		ruleSet.directoryNames[directoryName] = struct{}{}
	}
}

// AddFileNames extends the excluded file-name set.
func (ruleSet *RuleSet) AddFileNames(fileNames ...string) {
	for _, fileName := range fileNames {
		if fileName == "" {
			continue
		}
		ruleSet.fileNames[fileName] = struct{}{}
	}
}

// AddSuffixes extends the excluded suffix set.
func (ruleSet *RuleSet) AddSuffixes(suffixes ...string) {
	for _, suffix := range suffixes {
		if suffix == "" {
			continue
		}
		ruleSet.suffixes[suffix] = struct{}{}
	}
}

// AddPatterns parses and appends raw auto-generated-file patterns,
// skipping blanks and duplicates.
func (ruleSet *RuleSet) AddPatterns(rawPatterns ...string) {
	for _, rawPattern := range utils.DeduplicatePatterns(rawPatterns) {
		trimmedPattern := strings.TrimSpace(rawPattern)
		if trimmedPattern == "" {
			continue
		}
		parsedPattern := ParsePattern(trimmedPattern)
		if ruleSet.containsPattern(parsedPattern) {
			continue
		}
		ruleSet.patterns = append(ruleSet.patterns, parsedPattern)
	}
}

// containsPattern reports whether an equivalent pattern is already registered.
func (ruleSet *RuleSet) containsPattern(candidate Pattern) bool {
	for _, existingPattern := range ruleSet.patterns {
		if existingPattern == candidate {
			return true
		}
	}
	return false
}

// PrunesSubtree reports whether any segment of the path matches a
// directory-name rule or a hard-excluded segment, meaning no path beneath it
// can ever be included. Name-based rules (file names, suffixes, patterns)
// exclude only the path itself, never its descendants.
func (ruleSet *RuleSet) PrunesSubtree(relativePath string) bool {
	for _, pathSegment := range utils.SplitPathSegments(relativePath) {
		if _, isExcludedDirectory := ruleSet.directoryNames[pathSegment]; isExcludedDirectory {
			return true
		}
		if utils.ContainsString(hardExcludedSegments, pathSegment) {
			return true
		}
	}
	return false
}

// Includes reports whether a path, given in slash form relative to the base
// directory, should appear in the filtered structure output. The exclusion
// rules are applied in order; the first match suppresses the path.
func (ruleSet *RuleSet) Includes(relativePath string) bool {
	pathSegments := utils.SplitPathSegments(relativePath)
	if len(pathSegments) == 0 {
		return true
	}
	baseName := pathSegments[len(pathSegments)-1]

	for _, pathSegment := range pathSegments {
		if _, isExcludedDirectory := ruleSet.directoryNames[pathSegment]; isExcludedDirectory {
			return false
		}
	}

	if _, isExcludedFile := ruleSet.fileNames[baseName]; isExcludedFile {
		return false
	}

	baseNameSuffix := filepath.Ext(baseName)
	if baseNameSuffix == baseName {
		// A dotfile's leading dot does not begin a suffix.
		baseNameSuffix = ""
	}
	if _, isExcludedSuffix := ruleSet.suffixes[baseNameSuffix]; isExcludedSuffix {
		return false
	}

	for _, autoGeneratedPattern := range ruleSet.patterns {
		if autoGeneratedPattern.Matches(baseName) {
			return false
		}
	}

	for _, pathSegment := range pathSegments {
		if utils.ContainsString(hardExcludedSegments, pathSegment) {
			return false
		}
	}

	return true
}
