// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/billoapp/structree/internal/commands"
	"github.com/billoapp/structree/internal/config"
	"github.com/billoapp/structree/internal/filter"
	"github.com/billoapp/structree/internal/services/clipboard"
	"github.com/billoapp/structree/internal/utils"
)

const (
	rootUse              = "structree [path]"
	rootShortDescription = "print a filtered view of a project's directory tree"
	rootLongDescription  = `structree walks a directory recursively, excludes build artifacts,
dependency folders, and auto-generated files, and prints the remaining
structure as an indented tree, followed by an unfiltered one-level summary
of the top-level subdirectories.`
	// rootUsageExample demonstrates command usage.
	rootUsageExample = `  # Print the structure of the current project
  structree .

  # Exclude an extra suffix and copy the output to the clipboard
  structree -e '*.gen.go' --copy ./web`

	exclusionFlagName = "e"
	copyFlagName      = "copy"
	configFlagName    = "config"
	versionFlagName   = "version"
	versionTemplate   = "structree version: %s\n"

	exclusionFlagDescription = "additional exclusion pattern (exact name or *suffix)"
	copyFlagDescription      = "copy the rendered output to the clipboard"
	configFlagDescription    = "configuration file path"
	versionFlagDescription   = "display application version"

	// warningLineFormat reports a collected traversal warning on stderr.
	warningLineFormat = "Warning: %s\n"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing target path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNotDirectoryFormat reports a target path that is not a directory.
	errorNotDirectoryFormat = "path '%s' is not a directory"
	// errorClipboardFormat reports a failure to copy output to the clipboard.
	errorClipboardFormat = "copying output to clipboard: %w"
	// errorConfigurationFormat reports a failure to load configuration.
	errorConfigurationFormat = "loading configuration: %w"
)

// Execute runs the structree application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var exclusionPatterns []string
	var copyEnabled bool
	var configFilePath string
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			targetDirectory := DefaultTargetDirectory()
			if len(arguments) > 0 {
				targetDirectory = arguments[0]
			}
			return runStructure(runOptions{
				targetDirectory:   targetDirectory,
				exclusionPatterns: exclusionPatterns,
				copyEnabled:       copyEnabled,
				copyFlagSet:       command.Flags().Changed(copyFlagName),
				configFilePath:    configFilePath,
			})
		},
	}

	rootCommand.Flags().StringArrayVarP(&exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	rootCommand.Flags().BoolVar(&copyEnabled, copyFlagName, false, copyFlagDescription)
	rootCommand.Flags().StringVar(&configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.Flags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	return rootCommand
}

// runOptions stores the resolved invocation settings.
type runOptions struct {
	targetDirectory   string
	exclusionPatterns []string
	copyEnabled       bool
	copyFlagSet       bool
	configFilePath    string
}

// runStructure validates the target directory, assembles the rule set from
// built-in defaults, configuration, and flags, then writes the filtered
// structure followed by the unfiltered one-level summary. Collected traversal
// warnings are reported on stderr after both sections.
func runStructure(options runOptions) error {
	validatedDirectory, validationError := resolveAndValidateDirectory(options.targetDirectory)
	if validationError != nil {
		return validationError
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		ExplicitFilePath: options.configFilePath,
	})
	if configurationError != nil {
		return fmt.Errorf(errorConfigurationFormat, configurationError)
	}

	ruleSet := filter.NewDefaultRuleSet()
	ruleSet.AddDirectoryNames(applicationConfiguration.Exclude.Directories...)
	ruleSet.AddFileNames(applicationConfiguration.Exclude.Files...)
	ruleSet.AddSuffixes(applicationConfiguration.Exclude.Suffixes...)
	ruleSet.AddPatterns(applicationConfiguration.Exclude.Patterns...)
	ruleSet.AddPatterns(options.exclusionPatterns...)

	copyRequested := options.copyEnabled
	if !options.copyFlagSet && applicationConfiguration.Copy != nil {
		copyRequested = *applicationConfiguration.Copy
	}

	var renderedOutput bytes.Buffer
	var outputWriter io.Writer = os.Stdout
	if copyRequested {
		outputWriter = io.MultiWriter(os.Stdout, &renderedOutput)
	}

	structureWriter := commands.StructureWriter{Output: outputWriter, Rules: ruleSet}
	collectedWarnings, structureError := structureWriter.WriteStructure(validatedDirectory)
	if structureError != nil {
		return structureError
	}

	summaryWriter := commands.SummaryWriter{Output: outputWriter}
	collectedWarnings = append(collectedWarnings, summaryWriter.WriteSummary(validatedDirectory)...)

	for _, warningMessage := range collectedWarnings {
		fmt.Fprintf(os.Stderr, warningLineFormat, warningMessage)
	}

	if copyRequested {
		copier := clipboard.NewService()
		if copyError := copier.Copy(renderedOutput.String()); copyError != nil {
			return fmt.Errorf(errorClipboardFormat, copyError)
		}
	}

	return nil
}

// DefaultTargetDirectory returns the directory containing the running
// executable, falling back to the working directory when the executable path
// cannot be determined.
func DefaultTargetDirectory() string {
	executablePath, executablePathError := os.Executable()
	if executablePathError == nil {
		return filepath.Dir(executablePath)
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError == nil {
		return workingDirectory
	}
	return "."
}

// resolveAndValidateDirectory converts the input path to absolute form and
// verifies that it names an existing directory.
func resolveAndValidateDirectory(inputPath string) (string, error) {
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	pathInformation, fileStatusError := os.Stat(cleanPath)
	if fileStatusError != nil {
		if os.IsNotExist(fileStatusError) {
			return "", fmt.Errorf(errorPathMissingFormat, inputPath)
		}
		return "", fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
	}
	if !pathInformation.IsDir() {
		return "", fmt.Errorf(errorNotDirectoryFormat, inputPath)
	}
	return cleanPath, nil
}
