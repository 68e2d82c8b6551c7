package rules

import (
	"embed"
	"fmt"
	"sync"

	"github.com/draupnir/draupnir/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// presetCache holds loaded presets to avoid re-parsing. Guarded by
// presetMu: GetPreset is reachable from concurrent HTTP handlers.
var (
	presetMu    sync.Mutex
	presetCache = map[string]*models.RulesConfig{}
)

// presetFiles maps preset names to embedded file paths
var presetFiles = map[string]string{
	"baseline": "presets/baseline.yaml",
	"strict":   "presets/strict.yaml",
}

// GetPreset returns a rules preset by name, or nil if not found
func GetPreset(name string) *models.RulesConfig {
	presetMu.Lock()
	defer presetMu.Unlock()

	if cached, ok := presetCache[name]; ok {
		return cached
	}

	path, ok := presetFiles[name]
	if !ok {
		return nil
	}

	data, err := presetFS.ReadFile(path)
	if err != nil {
		return nil
	}

	var config models.RulesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil
	}

	presetCache[name] = &config
	return &config
}

// ListPresetNames returns the names of all available presets
func ListPresetNames() []string {
	names := make([]string, 0, len(presetFiles))
	for name := range presetFiles {
		names = append(names, name)
	}
	return names
}

// ParseConfig loads a rules file from raw yaml.
func ParseConfig(data []byte) (*models.RulesConfig, error) {
	var config models.RulesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid rules config: %w", err)
	}
	return &config, nil
}

// MustGetPreset returns a preset or panics (for tests)
func MustGetPreset(name string) *models.RulesConfig {
	p := GetPreset(name)
	if p == nil {
		panic(fmt.Sprintf("preset %q not found", name))
	}
	return p
}
