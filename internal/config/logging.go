package config

import (
	"path/filepath"

	"github.com/rshade/uvwizard/internal/logging"
)

// wizardLogFile is the log file name used by the interactive wizard when no
// file is configured.
const wizardLogFile = "wizard.log"

// ToLoggingConfig converts config.LoggingConfig to logging.Config for use with
// the internal/logging package.
//
// The conversion applies these rules:
//   - Level, Format are copied directly
//   - If File is set, Output becomes "file" and File is passed through
//   - If File is empty, Output defaults to "stderr"
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// ToWizardLoggingConfig is ToLoggingConfig for the full-screen wizard, where
// stderr belongs to the terminal UI. Logs go to the configured file, or to
// $UVWIZARD_HOME/logs/wizard.log, or nowhere if that cannot be resolved.
func (lc *LoggingConfig) ToWizardLoggingConfig() logging.Config {
	cfg := lc.ToLoggingConfig()
	if cfg.Output == logging.OutputFile {
		return cfg
	}

	dir, err := GetLogDir()
	if err != nil {
		cfg.Output = logging.OutputDiscard
		return cfg
	}
	cfg.Output = logging.OutputFile
	cfg.File = filepath.Join(dir, wizardLogFile)
	return cfg
}

// GetLoggingConfig returns the Logging section of the global configuration.
// Flag overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}
