// Package commands contains the core logic for the structure and summary sections.
package commands

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/billoapp/structree/internal/filter"
	"github.com/billoapp/structree/internal/utils"
)

const (
	// structureHeaderLine introduces the filtered structure section.
	structureHeaderLine = "📁 PROJECT STRUCTURE (Source & Config Files Only):"
	// sectionSeparatorLine underlines each section header.
	sectionSeparatorLine = "============================================================"

	// directoryMarker prefixes directory lines in the filtered structure.
	directoryMarker = "📁"
	// fileMarker prefixes file lines in the filtered structure.
	fileMarker = "📄"
	// indentUnit is emitted once per nesting level below the base directory.
	indentUnit = "  "

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorEnumerateBaseFormat is used when the base directory cannot be enumerated.
	errorEnumerateBaseFormat = "enumerating %s: %w"
	// warningReadDirectoryFormat records a subdirectory that could not be read.
	warningReadDirectoryFormat = "reading directory %s: %v"
)

// StructureWriter renders the filtered directory structure as an indented tree.
type StructureWriter struct {
	Output io.Writer
	Rules  *filter.RuleSet
}

// visitedDirectories records directories whose header line has already been
// emitted, keyed by slash-form relative path. It is created per invocation
// and threaded through the walk as an explicit accumulator.
type visitedDirectories map[string]struct{}

// WriteStructure walks the base directory recursively in lexicographic order
// and prints every path accepted by the rule set, each preceded by any
// not-yet-shown ancestor directory headers. Directory-enumeration failures
// below the base directory are collected as warnings and the walk continues
// with siblings; only a failure to enumerate the base directory itself is an
// error.
func (writer *StructureWriter) WriteStructure(baseDirectoryPath string) ([]string, error) {
	absoluteBasePath, absolutePathError := filepath.Abs(baseDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, baseDirectoryPath, absolutePathError)
	}

	fmt.Fprintln(writer.Output, structureHeaderLine)
	fmt.Fprintln(writer.Output, sectionSeparatorLine)

	shownDirectories := make(visitedDirectories)
	var warnings []string

	walkFunction := func(currentPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			if filepath.Clean(currentPath) == absoluteBasePath {
				return walkError
			}
			warnings = append(warnings, fmt.Sprintf(warningReadDirectoryFormat, currentPath, walkError))
			return nil
		}

		relativePath := utils.RelativePathOrSelf(currentPath, absoluteBasePath)
		if relativePath == "." {
			return nil
		}
		if !writer.Rules.Includes(relativePath) {
			// Only segment rules suppress a whole subtree. A directory
			// rejected by a name-based rule is not printed itself, but its
			// descendants may still be accepted and its header then appears
			// through the ancestor chain.
			if directoryEntry.IsDir() && writer.Rules.PrunesSubtree(relativePath) {
				return filepath.SkipDir
			}
			return nil
		}

		writer.printEntry(relativePath, directoryEntry.IsDir(), shownDirectories)
		return nil
	}

	if walkError := filepath.WalkDir(absoluteBasePath, walkFunction); walkError != nil {
		return warnings, fmt.Errorf(errorEnumerateBaseFormat, absoluteBasePath, walkError)
	}

	return warnings, nil
}

// printEntry emits any not-yet-shown ancestor directory headers for the
// entry, shallowest first so a parent always precedes its children, and then
// the entry itself when it is a file. Indentation is two spaces per level of
// nesting below the base directory.
func (writer *StructureWriter) printEntry(relativePath string, isDirectory bool, shownDirectories visitedDirectories) {
	pathSegments := utils.SplitPathSegments(relativePath)
	directoryDepth := len(pathSegments)
	if !isDirectory {
		directoryDepth--
	}

	for depth := 1; depth <= directoryDepth; depth++ {
		directoryPath := strings.Join(pathSegments[:depth], "/")
		if _, alreadyShown := shownDirectories[directoryPath]; alreadyShown {
			continue
		}
		shownDirectories[directoryPath] = struct{}{}
		fmt.Fprintf(writer.Output, "%s%s %s/\n", strings.Repeat(indentUnit, depth-1), directoryMarker, pathSegments[depth-1])
	}

	if !isDirectory {
		fileDepth := len(pathSegments)
		fmt.Fprintf(writer.Output, "%s%s %s\n", strings.Repeat(indentUnit, fileDepth-1), fileMarker, pathSegments[fileDepth-1])
	}
}
