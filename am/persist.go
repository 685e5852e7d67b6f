package am

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
)

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	// Check if file exists before backing up
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	// Rotate backups: .back3 -> delete, .back2 -> .back3, .back1 -> .back2, current -> .back1
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	// Delete oldest backup if exists
	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		// Log deletion failures (but don't fail config save)
		logger.Warnw("Failed to delete old config backup",
			logger.FieldFile, back3,
			logger.FieldError, err)
	}

	// Rotate .back2 to .back3
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	// Rotate .back1 to .back2
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	// Copy current to .back1
	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}

	return nil
}

// IsBackupFile checks if the file is a config backup (.back1, .back2, .back3)
func IsBackupFile(path string) bool {
	base := filepath.Base(path)
	return base == ConfigFileName+".back1" ||
		base == ConfigFileName+".back2" ||
		base == ConfigFileName+".back3"
}

// Marshal encodes the configuration as TOML
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	return data, nil
}

// Save validates cfg and writes it to configPath as TOML, rotating backups
// of any existing file
func Save(cfg *Config, configPath string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", configPath)
	}

	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write config %s", configPath)
	}

	logger.Infow("Config written", logger.FieldFile, configPath)
	return nil
}
