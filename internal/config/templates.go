package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Survival Coach Configuration

[coaching]
# Identifier of the trader this installation coaches
user_id = "default"
# Number of days a daily check-in streak is measured over
checkin_window_days = 3
# Enable strict validation of reflection input
strict_validation = true

[storage]
# Path to the SQLite database (defaults next to this file)
# database_path = "/home/you/.config/survival-coach/coach.db"

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to the terminal
console = true
# Log to a rotating file
file = true
# Maximum log file size in megabytes before rotation
max_size_mb = 50
# Number of rotated files to keep
max_backups = 5
# Days to retain rotated files
max_age_days = 30

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Time format
time_format = "15:04:05"
`

// createTemplateConfig writes a commented config template so a fresh
// installation has something to edit.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}
