package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValueSource records where a resolved setting came from.
type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

// ResolvedValue is one setting plus its provenance.
type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// SettingsOpts carries the CLI flag values into resolution.
type SettingsOpts struct {
	ConfigPath string
	CLILLM     string
	CLIEmbed   string
	CLIDBPath  string
	CLIIndex   string
}

// Settings holds the resolved runtime settings. Precedence is
// CLI flag > environment > config file > built-in default, and each
// value remembers which layer supplied it.
type Settings struct {
	ConfigPath string `json:"config_path"`

	DBPath    ResolvedValue `json:"db_path"`
	LLM       ResolvedValue `json:"llm"`
	Embed     ResolvedValue `json:"embed"`
	IndexPath ResolvedValue `json:"index_path"`
}

// fileSettings is the runtime-settings slice of the config file. The
// file also carries vocabularies and thresholds; Load reads those.
type fileSettings struct {
	DBPath    string `yaml:"db_path"`
	LLM       string `yaml:"llm"`
	Embed     string `yaml:"embed"`
	IndexPath string `yaml:"index_path"`
}

// ResolveSettings layers the config file, environment variables, and
// CLI flags into one Settings value. A missing config file is fine;
// a broken one is not.
func ResolveSettings(opts SettingsOpts) (Settings, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := Settings{ConfigPath: path}

	fs, err := loadFileSettings(path)
	if err != nil {
		return out, err
	}
	if fs != nil {
		applyValue(&out.DBPath, fs.DBPath, SourceConfig, path)
		applyValue(&out.LLM, fs.LLM, SourceConfig, path)
		applyValue(&out.Embed, fs.Embed, SourceConfig, path)
		applyValue(&out.IndexPath, fs.IndexPath, SourceConfig, path)
	}

	applyEnvValue(&out.DBPath, "HIRELENS_DB")
	applyEnvValue(&out.LLM, "HIRELENS_LLM")
	applyEnvValue(&out.Embed, "HIRELENS_EMBED")
	applyEnvValue(&out.IndexPath, "HIRELENS_INDEX")

	applyValue(&out.LLM, opts.CLILLM, SourceCLI, "--llm")
	applyValue(&out.Embed, opts.CLIEmbed, SourceCLI, "--embed")
	applyValue(&out.DBPath, opts.CLIDBPath, SourceCLI, "--db")
	applyValue(&out.IndexPath, opts.CLIIndex, SourceCLI, "--index")

	if out.DBPath.Value != "" {
		out.DBPath.Value = expandUserPath(out.DBPath.Value)
	}
	if out.IndexPath.Value != "" {
		out.IndexPath.Value = expandUserPath(out.IndexPath.Value)
	}
	return out, nil
}

func applyValue(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnvValue(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadFileSettings(path string) (*fileSettings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var fs fileSettings
	if err := yaml.Unmarshal(b, &fs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &fs, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
