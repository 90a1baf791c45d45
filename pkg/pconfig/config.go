// Package pconfig implements prinbee's ambient configuration layer: a
// viper-backed config file, overridable by pflag command-line flags, that
// resolves the on-disk root path and default context ownership consumed by
// pkg/context.Setup.
//
// Grounded on direktiv-vorteil/pkg/vconvert's viper usage (initConfig's
// homedir-then-ReadInConfig-then-SetDefault fallback). Flag registration
// binds straight to viper through viper.BindPFlag rather than going
// through direktiv-vorteil's pkg/flag.Flag indirection, since that
// package's variable-occurrence flags (built for vorteil's numbered
// disk/network settings) have no counterpart in prinbee's fixed,
// five-key ambient config.
package pconfig

import (
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/m2osw/prinbee/pkg/context"
	"github.com/m2osw/prinbee/pkg/elog"
	"github.com/m2osw/prinbee/pkg/perrors"
)

// configFileName is the base name viper searches for (any of the
// extensions it recognises: prinbee.yaml, prinbee.json, ...).
const configFileName = "prinbee"

// Config is the resolved ambient configuration.
type Config struct {
	// RootPath is the directory contexts/ lives under (spec.md §6
	// "Directory layout").
	RootPath string
	// DefaultOwner and DefaultGroup seed pkg/context.Setup.Owner/Group
	// when a caller doesn't override them per-context.
	DefaultOwner string
	DefaultGroup string
	Verbose      bool
	Debug        bool
}

// Load reads cfgFile (or, when empty, "~/prinbee.{yaml,json,...}") into a
// Config. A missing config file is not an error unless cfgFile was given
// explicitly; defaults fill in for every unset key either way.
func Load(cfgFile string, log elog.Logger) (*Config, error) {
	return load(cfgFile, log, nil)
}

// load is Load's implementation, taking an optional flagSet whose
// already-parsed flags are bound into viper so that an explicit
// command-line value outranks both the config file and the built-in
// default, without any caller-side "was this flag set" bookkeeping.
func load(cfgFile string, log elog.Logger, flagSet *pflag.FlagSet) (*Config, error) {
	log = elog.Or(log)

	v := viper.New()
	v.SetEnvPrefix("PRINBEE")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(configFileName)
	}

	v.SetDefault("root-path", defaultRootPath())
	v.SetDefault("owner", "")
	v.SetDefault("group", "")
	v.SetDefault("verbose", false)
	v.SetDefault("debug", false)

	if flagSet != nil {
		for _, key := range []string{"root-path", "owner", "group", "verbose", "debug"} {
			if f := flagSet.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, perrors.Wrap(perrors.LogicError, err, "binding flag %q into config", key)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err == nil {
		log.Debugf("using config file: %s", v.ConfigFileUsed())
	} else if cfgFile != "" {
		return nil, perrors.Wrap(perrors.IOError, err, "reading config file %q", cfgFile)
	} else {
		log.Debugf("no config file found, using defaults: %s", err.Error())
	}

	return &Config{
		RootPath:     v.GetString("root-path"),
		DefaultOwner: v.GetString("owner"),
		DefaultGroup: v.GetString("group"),
		Verbose:      v.GetBool("verbose"),
		Debug:        v.GetBool("debug"),
	}, nil
}

// ContextSetup builds a pkg/context.Setup for name, seeded with this
// config's root path and default ownership.
func (cfg *Config) ContextSetup(name string) context.Setup {
	return context.Setup{
		RootPath: cfg.RootPath,
		Name:     name,
		Owner:    cfg.DefaultOwner,
		Group:    cfg.DefaultGroup,
	}
}

func defaultRootPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return filepath.Join(string(filepath.Separator), "var", "lib", "prinbee")
	}
	return filepath.Join(home, ".local", "share", "prinbee")
}
