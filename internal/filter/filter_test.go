package filter_test

import (
	"testing"

	"github.com/billoapp/structree/internal/filter"
)

// licenseFileName is excluded through the auto-generated pattern list.
const licenseFileName = "LICENSE.txt"

// cssMapFileName is excluded through the *.css.map suffix pattern.
const cssMapFileName = "app.css.map"

// pythonFileName matches no exclusion rule.
const pythonFileName = "main.py"

func TestRuleSetIncludes(t *testing.T) {
	testCases := []struct {
		name          string
		relativePath  string
		expectInclude bool
	}{
		{
			name:          "excluded_directory_segment",
			relativePath:  "src/node_modules/lib/index.js",
			expectInclude: false,
		},
		{
			name:          "excluded_directory_as_base_name",
			relativePath:  "packages/__pycache__",
			expectInclude: false,
		},
		{
			name:          "excluded_file_name",
			relativePath:  "web/package-lock.json",
			expectInclude: false,
		},
		{
			name:          "excluded_file_name_at_root",
			relativePath:  ".DS_Store",
			expectInclude: false,
		},
		{
			name:          "excluded_suffix",
			relativePath:  "assets/logo.svg",
			expectInclude: false,
		},
		{
			name:          "excluded_suffix_regardless_of_depth",
			relativePath:  "a/b/c/d/debug.log",
			expectInclude: false,
		},
		{
			name:          "auto_generated_exact_pattern",
			relativePath:  licenseFileName,
			expectInclude: false,
		},
		{
			name:          "auto_generated_suffix_pattern",
			relativePath:  "styles/" + cssMapFileName,
			expectInclude: false,
		},
		{
			name:          "hard_excluded_build_segment",
			relativePath:  "frontend/build/index.html",
			expectInclude: false,
		},
		{
			name:          "hard_excluded_static_segment",
			relativePath:  "public/static/app.js",
			expectInclude: false,
		},
		{
			name:          "included_source_file",
			relativePath:  pythonFileName,
			expectInclude: true,
		},
		{
			name:          "included_nested_source_file",
			relativePath:  "cmd/server/main.go",
			expectInclude: true,
		},
		{
			name:          "included_directory",
			relativePath:  "internal/api",
			expectInclude: true,
		},
		{
			name:          "base_directory_itself",
			relativePath:  ".",
			expectInclude: true,
		},
		{
			name:          "builder_name_is_not_build_segment",
			relativePath:  "builder/main.go",
			expectInclude: true,
		},
		{
			name:          "child_of_directory_named_like_metadata_file",
			relativePath:  "Thumbs.db/x.py",
			expectInclude: true,
		},
		{
			name:          "dotfile_named_like_log_suffix",
			relativePath:  ".log",
			expectInclude: true,
		},
		{
			name:          "dotfile_named_like_tmp_suffix",
			relativePath:  "scripts/.tmp",
			expectInclude: true,
		},
		{
			name:          "dotfile_with_real_excluded_suffix",
			relativePath:  ".debug.log",
			expectInclude: false,
		},
	}

	ruleSet := filter.NewDefaultRuleSet()
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			included := ruleSet.Includes(testCase.relativePath)
			if included != testCase.expectInclude {
				t.Fatalf("Includes(%q) = %v, expected %v", testCase.relativePath, included, testCase.expectInclude)
			}
		})
	}
}

func TestParsePatternClassifiesKinds(t *testing.T) {
	testCases := []struct {
		name         string
		rawPattern   string
		expectKind   filter.PatternKind
		expectValue  string
		matchingName string
		rejectedName string
	}{
		{
			name:         "exact_name",
			rawPattern:   "robots.txt",
			expectKind:   filter.PatternKindExactName,
			expectValue:  "robots.txt",
			matchingName: "robots.txt",
			rejectedName: "robots.txt.bak",
		},
		{
			name:         "suffix_pattern",
			rawPattern:   "*.js.map",
			expectKind:   filter.PatternKindSuffix,
			expectValue:  ".js.map",
			matchingName: "bundle.js.map",
			rejectedName: "bundle.js",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			parsedPattern := filter.ParsePattern(testCase.rawPattern)
			if parsedPattern.Kind != testCase.expectKind {
				t.Fatalf("unexpected kind for %q: %v", testCase.rawPattern, parsedPattern.Kind)
			}
			if parsedPattern.Value != testCase.expectValue {
				t.Fatalf("unexpected value for %q: %q", testCase.rawPattern, parsedPattern.Value)
			}
			if !parsedPattern.Matches(testCase.matchingName) {
				t.Fatalf("expected %q to match %q", testCase.rawPattern, testCase.matchingName)
			}
			if parsedPattern.Matches(testCase.rejectedName) {
				t.Fatalf("expected %q not to match %q", testCase.rawPattern, testCase.rejectedName)
			}
		})
	}
}

func TestRuleSetExtensionNeverRemovesDefaults(t *testing.T) {
	ruleSet := filter.NewDefaultRuleSet()
	ruleSet.AddDirectoryNames("generated")
	ruleSet.AddSuffixes(".bak")
	ruleSet.AddPatterns("*.gen.go", "schema.sql")

	exclusions := []string{
		"src/generated/api.ts",
		"notes.bak",
		"internal/store/queries.gen.go",
		"db/schema.sql",
		// defaults must still apply after extension
		"vendor/node_modules/left-pad/index.js",
		licenseFileName,
	}
	for _, relativePath := range exclusions {
		if ruleSet.Includes(relativePath) {
			t.Fatalf("expected %q to be excluded", relativePath)
		}
	}

	if !ruleSet.Includes(pythonFileName) {
		t.Fatalf("expected %q to remain included", pythonFileName)
	}
}

func TestPrunesSubtreeOnlyForSegmentRules(t *testing.T) {
	testCases := []struct {
		name         string
		relativePath string
		expectPrune  bool
	}{
		{
			name:         "excluded_directory_segment_prunes",
			relativePath: "src/node_modules",
			expectPrune:  true,
		},
		{
			name:         "hard_excluded_segment_prunes",
			relativePath: "frontend/build",
			expectPrune:  true,
		},
		{
			name:         "metadata_file_name_does_not_prune",
			relativePath: "Thumbs.db",
			expectPrune:  false,
		},
		{
			name:         "excluded_suffix_does_not_prune",
			relativePath: "assets/icons.png",
			expectPrune:  false,
		},
		{
			name:         "auto_generated_pattern_does_not_prune",
			relativePath: "robots.txt",
			expectPrune:  false,
		},
	}

	ruleSet := filter.NewDefaultRuleSet()
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			pruned := ruleSet.PrunesSubtree(testCase.relativePath)
			if pruned != testCase.expectPrune {
				t.Fatalf("PrunesSubtree(%q) = %v, expected %v", testCase.relativePath, pruned, testCase.expectPrune)
			}
		})
	}
}

func TestRuleSetIgnoresBlankExtensions(t *testing.T) {
	ruleSet := filter.NewDefaultRuleSet()
	ruleSet.AddDirectoryNames("")
	ruleSet.AddPatterns("", "  ")

	if !ruleSet.Includes("cmd/main.go") {
		t.Fatalf("blank extensions must not exclude anything")
	}
}
