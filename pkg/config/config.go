// Package config loads the optional anilang.toml the CLI and REPL read
// their presentation settings from. A missing file yields the defaults.
package config

import (
	"fmt"
	"os"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
)

// DefaultFile is looked for in the working directory when no --config
// flag names another path.
const DefaultFile = "anilang.toml"

type Config struct {
	REPL REPL `toml:"repl"`
}

type REPL struct {
	Prompt       string `toml:"prompt"`
	Continuation string `toml:"continuation"`
	HistorySize  int    `toml:"-"`
	Color        string `toml:"color"` // auto, always, never
}

func Default() Config {
	return Config{REPL: REPL{
		Prompt:       "» ",
		Continuation: "· ",
		HistorySize:  512,
		Color:        "auto",
	}}
}

// Load reads path over the defaults. ErrNotExist from a missing default
// file is not an error; an explicitly named missing file is.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	raw := struct {
		REPL struct {
			Prompt       *string `toml:"prompt"`
			Continuation *string `toml:"continuation"`
			HistorySize  *int64  `toml:"history_size"`
			Color        *string `toml:"color"`
		} `toml:"repl"`
	}{}

	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config: unknown key %q", undecoded[0].String())
	}

	if raw.REPL.Prompt != nil {
		cfg.REPL.Prompt = *raw.REPL.Prompt
	}
	if raw.REPL.Continuation != nil {
		cfg.REPL.Continuation = *raw.REPL.Continuation
	}
	if raw.REPL.HistorySize != nil {
		size, err := safecast.Conv[int](*raw.REPL.HistorySize)
		if err != nil || size < 0 {
			return cfg, fmt.Errorf("config: history_size %d out of range", *raw.REPL.HistorySize)
		}
		cfg.REPL.HistorySize = size
	}
	if raw.REPL.Color != nil {
		switch *raw.REPL.Color {
		case "auto", "always", "never":
			cfg.REPL.Color = *raw.REPL.Color
		default:
			return cfg, fmt.Errorf("config: color must be auto, always, or never, got %q", *raw.REPL.Color)
		}
	}
	return cfg, nil
}
