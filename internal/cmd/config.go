package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/mstoykov/envconfig"
	"gopkg.in/guregu/null.v3"

	"github.com/sadosystems/conformance-report/cmd/state"
	"github.com/sadosystems/conformance-report/conformance"
	"github.com/sadosystems/conformance-report/errext"
	"github.com/sadosystems/conformance-report/errext/exitcodes"
	"github.com/sadosystems/conformance-report/lib/fsext"
)

// Config holds the report options shared between subcommands. Values
// cascade: code defaults, then the JSON config file, then environment
// variables, then CLI flags.
type Config struct {
	BadgeDir   null.String `json:"badgeDir" envconfig:"CONFREPORT_BADGE_DIR"`
	PlainCells null.Bool   `json:"plainCells" envconfig:"CONFREPORT_PLAIN_CELLS"`
	Categories null.String `json:"categories" envconfig:"CONFREPORT_CATEGORIES"`

	TotalRequired    null.Int `json:"totalRequired" envconfig:"CONFREPORT_TOTAL_REQUIRED"`
	TotalRecommended null.Int `json:"totalRecommended" envconfig:"CONFREPORT_TOTAL_RECOMMENDED"`
}

// NewConfig creates a new Config with default values.
func NewConfig() Config {
	return Config{
		BadgeDir:         null.NewString(conformance.DefaultBadgeDir, false),
		PlainCells:       null.NewBool(false, false),
		Categories:       null.NewString("", false),
		TotalRequired:    null.NewInt(conformance.TotalRequired, false),
		TotalRecommended: null.NewInt(conformance.TotalRecommended, false),
	}
}

// Apply overlays any valid fields of cfg on top of c and returns the result.
func (c Config) Apply(cfg Config) Config {
	if cfg.BadgeDir.Valid {
		c.BadgeDir = cfg.BadgeDir
	}
	if cfg.PlainCells.Valid {
		c.PlainCells = cfg.PlainCells
	}
	if cfg.Categories.Valid {
		c.Categories = cfg.Categories
	}
	if cfg.TotalRequired.Valid {
		c.TotalRequired = cfg.TotalRequired
	}
	if cfg.TotalRecommended.Valid {
		c.TotalRecommended = cfg.TotalRecommended
	}
	return c
}

// Validate checks the consolidated values for impossible combinations.
func (c Config) Validate() error {
	if c.TotalRequired.Int64 <= 0 || c.TotalRecommended.Int64 <= 0 {
		return errext.WithExitCodeIfNone(
			fmt.Errorf("suite totals must be positive, got %d required and %d recommended",
				c.TotalRequired.Int64, c.TotalRecommended.Int64),
			exitcodes.InvalidConfig,
		)
	}
	return nil
}

func readDiskConfig(gs *state.GlobalState) (Config, error) {
	// Try to see if the file exists in the supplied filesystem
	if _, err := gs.FS.Stat(gs.Flags.ConfigFilePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) && gs.Flags.ConfigFilePath == gs.DefaultFlags.ConfigFilePath {
			// If the file doesn't exist, but it was the default config file (i.e. the user
			// didn't specify anything), silently ignore the error and return an empty config
			return Config{}, nil
		}
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}

	data, err := fsext.ReadFile(gs.FS, gs.Flags.ConfigFilePath)
	if err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}

	var conf Config
	if err := json.Unmarshal(data, &conf); err != nil {
		err = fmt.Errorf("could not parse the config file %s: %w", gs.Flags.ConfigFilePath, err)
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}
	return conf, nil
}

func readEnvConfig(env map[string]string) (Config, error) {
	var conf Config
	err := envconfig.Process("", &conf, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	if err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}
	return conf, nil
}

// getConfig returns the defaults overlaid with the config file and the
// environment. CLI flags are applied on top by each subcommand, since every
// command exposes a different subset of them.
func getConfig(gs *state.GlobalState) (Config, error) {
	fileConf, err := readDiskConfig(gs)
	if err != nil {
		return Config{}, err
	}
	envConf, err := readEnvConfig(gs.Env)
	if err != nil {
		return Config{}, err
	}
	return NewConfig().Apply(fileConf).Apply(envConf), nil
}
