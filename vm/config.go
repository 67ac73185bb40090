package vm

import (
	"github.com/BurntSushi/toml"
)

// Config holds the emulator's tunable resource limits: the step budget and
// max invoke depth, the only cancellation mechanism this VM has, plus a
// trace toggle for verbose per-instruction logging. It is TOML-backed
// rather than built from constants, since a Smali program's resource
// needs vary far more than a fixed-register machine's would.
type Config struct {
	StepBudget    int  `toml:"step_budget"`
	MaxFrameDepth int  `toml:"max_frame_depth"`
	Trace         bool `toml:"trace"`
}

// DefaultConfig returns conservative limits sufficient for the test suite
// and typical single-method executions.
func DefaultConfig() Config {
	return Config{
		StepBudget:    1_000_000,
		MaxFrameDepth: 256,
		Trace:         false,
	}
}

// LoadConfigFile reads a TOML configuration file, starting from
// DefaultConfig so a file that only overrides one field still produces a
// complete, valid Config.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
