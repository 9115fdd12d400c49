// Package config loads optional user configuration from
// ~/.config/session-memory/.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultReportTemplate renders the report command's markdown output.
// Drop a report_template.md into the config directory to replace it.
const DefaultReportTemplate = `# Session Report: {{project_path}}

Session #{{session_id}} ({{session_uid}})
Started {{started_at}}, last active {{last_active}} ({{last_active_ago}}).
Duration: {{duration_minutes}} minutes.

## Activity

- Files read: {{files_read}}
- Changes made: {{changes_made}}
- Tests run: {{tests_run}}
- Notes added: {{notes_added}}
- Errors logged: {{errors_logged}}
{{#has_success_rate}}- Test success rate: {{test_success_rate}}%
{{/has_success_rate}}{{#has_file_types}}
## Most active file types

{{#file_types}}- {{type}}: {{count}}
{{/file_types}}{{/has_file_types}}`

type Config struct {
	DBPath         string // overrides the default database location
	QueryLimit     int    // default row limit for query output
	ReportTemplate string
}

type tomlConfig struct {
	DBPath     string `toml:"db_path"`
	QueryLimit int    `toml:"query_limit"`
}

// Load reads config from ~/.config/session-memory/. Missing or
// unparseable files fall back to defaults.
func Load() (*Config, error) {
	cfg := &Config{
		QueryLimit:     20,
		ReportTemplate: DefaultReportTemplate,
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil // Use defaults
	}

	configDir := filepath.Join(home, ".config", "session-memory")
	tomlPath := filepath.Join(configDir, "config.toml")
	templatePath := filepath.Join(configDir, "report_template.md")

	// Load TOML config if it exists
	if _, err := os.Stat(tomlPath); err == nil {
		var tc tomlConfig
		if _, err := toml.DecodeFile(tomlPath, &tc); err == nil {
			if tc.DBPath != "" {
				cfg.DBPath = tc.DBPath
			}
			if tc.QueryLimit > 0 {
				cfg.QueryLimit = tc.QueryLimit
			}
		}
	}

	// If custom report template exists, use it
	if data, err := os.ReadFile(templatePath); err == nil {
		cfg.ReportTemplate = string(data)
	}

	return cfg, nil
}
