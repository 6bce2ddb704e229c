// Package loader reads site and device inventory from directories of
// YAML files.
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/braunma/cabletrace/pkg/models"
	"github.com/braunma/cabletrace/pkg/utils"
)

// DataLoader handles loading and validating YAML inventory files
type DataLoader struct {
	basePath string
	logger   *utils.Logger
}

// NewDataLoader creates a new data loader
func NewDataLoader(basePath string, logger *utils.Logger) *DataLoader {
	return &DataLoader{
		basePath: basePath,
		logger:   logger,
	}
}

// LoadSites loads site definitions from a folder
func (dl *DataLoader) LoadSites(folder string) ([]*models.SiteConfig, error) {
	var sites []*models.SiteConfig
	err := dl.loadFromFolder(folder, &sites)
	if err != nil {
		return nil, err
	}
	dl.logger.Debug("Loaded %d sites from %s", len(sites), folder)
	return sites, nil
}

// LoadDevices loads device configurations from a folder
func (dl *DataLoader) LoadDevices(folder string) ([]*models.DeviceConfig, error) {
	var devices []*models.DeviceConfig
	err := dl.loadFromFolder(folder, &devices)
	if err != nil {
		return nil, err
	}
	dl.logger.Debug("Loaded %d devices from %s", len(devices), folder)
	return devices, nil
}

// loadFromFolder loads YAML files from a folder and unmarshals into the target
func (dl *DataLoader) loadFromFolder(folder string, target interface{}) error {
	targetDir := filepath.Join(dl.basePath, folder)

	// Check if directory exists
	if _, err := os.Stat(targetDir); os.IsNotExist(err) {
		dl.logger.Warning("Folder %s not found, skipping", folder)
		return nil
	}

	// Find all YAML files recursively
	yamlFiles, err := dl.findYAMLFiles(targetDir)
	if err != nil {
		return fmt.Errorf("failed to find YAML files in %s: %w", targetDir, err)
	}

	if len(yamlFiles) == 0 {
		dl.logger.Warning("No YAML files found in %s", folder)
		return nil
	}

	// Load each file
	for _, file := range yamlFiles {
		if err := dl.loadFile(file, target); err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return nil
}

// loadFile loads a single YAML file and appends its items to target.
// Every file holds a list of objects of one type.
func (dl *DataLoader) loadFile(path string, target interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	switch t := target.(type) {
	case *[]*models.SiteConfig:
		var newItems []*models.SiteConfig
		if err := yaml.Unmarshal(content, &newItems); err != nil {
			return fmt.Errorf("failed to unmarshal sites: %w", err)
		}
		*t = append(*t, newItems...)
	case *[]*models.DeviceConfig:
		var newItems []*models.DeviceConfig
		if err := yaml.Unmarshal(content, &newItems); err != nil {
			return fmt.Errorf("failed to unmarshal devices: %w", err)
		}
		*t = append(*t, newItems...)
	default:
		return fmt.Errorf("unsupported target type: %T", target)
	}

	return nil
}

// findYAMLFiles recursively finds all YAML files in a directory
func (dl *DataLoader) findYAMLFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			ext := filepath.Ext(path)
			if ext == ".yaml" || ext == ".yml" {
				files = append(files, path)
			}
		}

		return nil
	})

	return files, err
}
