package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/bankrec/internal/models"

	"gopkg.in/yaml.v3"
)

// RuleFile is the YAML layout used to seed and export bank rules.
type RuleFile struct {
	Rules []models.BankRule `yaml:"rules"`
}

// FindConfigFile looks for filename as given, then under ./config,
// ./.bankrec and $HOME/.bankrec.
func FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".bankrec", filename),
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".bankrec", filename))
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadRulesYAML reads rules from a file holding either a top-level "rules"
// key or a bare list.
func LoadRulesYAML(filename string) ([]models.BankRule, error) {
	path, err := FindConfigFile(filename)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", filename, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err == nil && len(file.Rules) > 0 {
		return file.Rules, nil
	}

	var list []models.BankRule
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("error parsing rules file: %w", err)
	}
	if len(list) == 0 {
		return nil, errors.New("rules file contains no rules")
	}
	return list, nil
}

// SaveRulesYAML writes rules under a top-level "rules" key.
func SaveRulesYAML(path string, rules []models.BankRule) error {
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	data, err := yaml.Marshal(RuleFile{Rules: rules})
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, models.PermissionConfigFile); err != nil {
		return fmt.Errorf("error writing rules file: %w", err)
	}
	return nil
}
