// Package config loads the optional TOML settings file.
//
// Every field is a pointer so an absent key can be told apart from a zero
// value; command-line flags that were set explicitly take precedence.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/iafilius/BlockAccuracyPlot/src/types"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Chart ChartConfig `toml:"chart"`
	Log   LogConfig   `toml:"log"`
}

// ChartConfig maps chart-related settings. Colors are hex strings ("#1f77b4").
type ChartConfig struct {
	Title         *string `toml:"title"`
	Note          *string `toml:"note"`
	LineColor     *string `toml:"line-color"`
	BoundaryColor *string `toml:"boundary-color"`
	LabelColor    *string `toml:"label-color"`
}

type LogConfig struct {
	Level *string `toml:"level"`
}

// Load reads a TOML config from path. An empty path means no config file.
func Load(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, &types.FilesystemError{Op: "open", Path: path, Err: err}
	}
	return Parse(string(data))
}

// Parse decodes TOML text. Unknown keys are rejected so typos do not pass silently.
func Parse(text string) (FileConfig, error) {
	var cfg FileConfig
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}
