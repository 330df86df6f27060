package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/malonaz/tgexport/internal/file"
)

var defaultConfig = Config{
	APIID:           0,
	APIHash:         "API_HASH",
	SessionFile:     "~/.tgexport/session.json",
	ExportDirectory: ".",
	HistoryFile:     "~/.tgexport/exports.db",
}

// Config holds configuration for the tgexport tool.
type Config struct {
	// Telegram application credentials, issued at https://my.telegram.org.
	APIID   int    `json:"api_id"`
	APIHash string `json:"api_hash"`
	// The file where we persist the authenticated MTProto session.
	SessionFile string `json:"session_file"`
	// The directory where exported dialogs are written.
	ExportDirectory string `json:"export_directory"`
	// The sqlite database recording completed exports.
	HistoryFile string `json:"history_file"`
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}

	expandedSessionFile, err := file.ExpandPath(config.SessionFile)
	if err != nil {
		return nil, errors.Wrap(err, "expanding session file path")
	}
	config.SessionFile = expandedSessionFile

	expandedExportDirectory, err := file.ExpandPath(config.ExportDirectory)
	if err != nil {
		return nil, errors.Wrap(err, "expanding export directory path")
	}
	config.ExportDirectory = expandedExportDirectory

	expandedHistoryFile, err := file.ExpandPath(config.HistoryFile)
	if err != nil {
		return nil, errors.Wrap(err, "expanding history file path")
	}
	config.HistoryFile = expandedHistoryFile
	return config, nil
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	// Create the directories.
	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}
