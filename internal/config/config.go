// Package config loads and merges optional structree configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/billoapp/structree/internal/utils"
)

// ConfigFileName is the name of the optional configuration file discovered in
// the home directory and the working directory.
const ConfigFileName = ".structree.yaml"

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the user-provided defaults. Every setting
// extends the built-in exclusion rule set; none replaces it.
type ApplicationConfiguration struct {
	Copy    *bool                  `mapstructure:"copy"`
	Exclude ExclusionConfiguration `mapstructure:"exclude"`
}

// ExclusionConfiguration lists additional exclusion rules by rule kind.
type ExclusionConfiguration struct {
	Directories []string `mapstructure:"directories"`
	Files       []string `mapstructure:"files"`
	Suffixes    []string `mapstructure:"suffixes"`
	Patterns    []string `mapstructure:"patterns"`
}

// LoadApplicationConfiguration loads configuration from the global file in
// the user home directory and the local file in the working directory (or an
// explicit path), merged global-first so local settings win.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined
// configuration. Scalar settings are replaced when set in the override;
// exclusion lists are appended and deduplicated.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	result.Exclude = result.Exclude.merge(override.Exclude)
	return result
}

func (config ExclusionConfiguration) merge(override ExclusionConfiguration) ExclusionConfiguration {
	return ExclusionConfiguration{
		Directories: utils.DeduplicatePatterns(append(append([]string{}, config.Directories...), override.Directories...)),
		Files:       utils.DeduplicatePatterns(append(append([]string{}, config.Files...), override.Files...)),
		Suffixes:    utils.DeduplicatePatterns(append(append([]string{}, config.Suffixes...), override.Suffixes...)),
		Patterns:    utils.DeduplicatePatterns(append(append([]string{}, config.Patterns...), override.Patterns...)),
	}
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
