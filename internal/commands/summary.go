package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/billoapp/structree/internal/utils"
)

const (
	// summaryHeaderLine introduces the unfiltered one-level summary section.
	summaryHeaderLine = "🔍 ACTUAL DIRECTORY CONTENTS (No filtering):"

	// topLevelDirectoryMarker prefixes top-level subdirectory headers.
	topLevelDirectoryMarker = "📂"

	// permissionDeniedLine replaces the child listing of an unreadable subdirectory.
	permissionDeniedLine = indentUnit + "(Permission denied)"
	// noSubdirectoriesMessage is printed when the base directory has no listable subdirectories.
	noSubdirectoriesMessage = "No subdirectories found."
	// baseDirectoryErrorFormat reports a failure to enumerate the base directory.
	baseDirectoryErrorFormat = "Error reading directory: %v"
)

// summaryExcludedDirectoryNames is the coarse exclusion set applied to
// top-level subdirectories only; children one level down are never filtered.
var summaryExcludedDirectoryNames = []string{
	"node_modules", ".git", ".next", "dist", "build", ".cache", ".vscode", ".idea",
}

// SummaryWriter renders the unfiltered one-level contents of a base
// directory's subdirectories.
type SummaryWriter struct {
	Output io.Writer
}

// WriteSummary lists the base directory's immediate subdirectories sorted by
// name, excluding the coarse dependency/build/VCS/editor set, and under each
// its immediate children with directories before files. Enumeration failures
// never abort the listing: an unreadable subdirectory is reported inline and
// recorded as a warning, and a failure on the base directory itself is
// printed and ends the summary gracefully.
func (writer *SummaryWriter) WriteSummary(baseDirectoryPath string) []string {
	fmt.Fprintln(writer.Output, summaryHeaderLine)
	fmt.Fprintln(writer.Output, sectionSeparatorLine)

	var warnings []string

	baseEntries, readBaseError := os.ReadDir(baseDirectoryPath)
	if readBaseError != nil {
		fmt.Fprintf(writer.Output, baseDirectoryErrorFormat+"\n", readBaseError)
		warnings = append(warnings, fmt.Sprintf(warningReadDirectoryFormat, baseDirectoryPath, readBaseError))
		return warnings
	}

	var subdirectoryNames []string
	for _, baseEntry := range baseEntries {
		if !baseEntry.IsDir() {
			continue
		}
		if utils.ContainsString(summaryExcludedDirectoryNames, baseEntry.Name()) {
			continue
		}
		subdirectoryNames = append(subdirectoryNames, baseEntry.Name())
	}

	if len(subdirectoryNames) == 0 {
		fmt.Fprintln(writer.Output)
		fmt.Fprintln(writer.Output, noSubdirectoriesMessage)
		return warnings
	}

	sort.Strings(subdirectoryNames)

	for _, subdirectoryName := range subdirectoryNames {
		fmt.Fprintf(writer.Output, "\n%s %s/\n", topLevelDirectoryMarker, subdirectoryName)

		subdirectoryPath := filepath.Join(baseDirectoryPath, subdirectoryName)
		childEntries, readChildrenError := os.ReadDir(subdirectoryPath)
		if readChildrenError != nil {
			if errors.Is(readChildrenError, fs.ErrPermission) {
				fmt.Fprintln(writer.Output, permissionDeniedLine)
			}
			warnings = append(warnings, fmt.Sprintf(warningReadDirectoryFormat, subdirectoryPath, readChildrenError))
			continue
		}

		writer.printChildren(childEntries)
	}

	return warnings
}

// printChildren prints one level of entries, directories first and each kind
// sorted alphabetically.
func (writer *SummaryWriter) printChildren(childEntries []os.DirEntry) {
	sortedChildren := make([]os.DirEntry, len(childEntries))
	copy(sortedChildren, childEntries)
	sort.SliceStable(sortedChildren, func(firstIndex, secondIndex int) bool {
		firstEntry, secondEntry := sortedChildren[firstIndex], sortedChildren[secondIndex]
		if firstEntry.IsDir() != secondEntry.IsDir() {
			return firstEntry.IsDir()
		}
		return firstEntry.Name() < secondEntry.Name()
	})

	for _, childEntry := range sortedChildren {
		if childEntry.IsDir() {
			fmt.Fprintf(writer.Output, "%s%s %s/\n", indentUnit, directoryMarker, childEntry.Name())
		} else {
			fmt.Fprintf(writer.Output, "%s%s %s\n", indentUnit, fileMarker, childEntry.Name())
		}
	}
}
