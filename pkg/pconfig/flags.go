package pconfig

import (
	"github.com/spf13/pflag"
)

// Flags holds the destinations for prinbee's ambient command-line
// overrides. Unlike direktiv-vorteil's pkg/flag.Flag types, these are
// plain pflag-backed fields: prinbee has no vorteil-style "--disk[0].*"
// repeatable-resource flags to justify that package's Flag interface and
// FlagsList indirection, so the flags bind straight to a pflag.FlagSet
// and, via Resolve, straight into viper.
type Flags struct {
	cfgFile string
}

// NewFlags returns an unregistered Flags; call AddTo before parsing.
func NewFlags() *Flags {
	return &Flags{}
}

// AddTo declares every ambient flag on flagSet.
func (fl *Flags) AddTo(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&fl.cfgFile, "config", "", "path to a prinbee config file")
	flagSet.String("root-path", "", "directory contexts/ is created under")
	flagSet.String("owner", "", "default owner for new context directories")
	flagSet.String("group", "", "default group for new context directories")
	flagSet.Bool("verbose", false, "enable verbose logging")
	flagSet.Bool("debug", false, "enable debug logging")
}

// Resolve loads the config file named by --config (if any) and binds
// flagSet's remaining flags into the same viper instance Load builds, so
// a flag actually given on the command line outranks both the config
// file and the built-in default.
func (fl *Flags) Resolve(flagSet *pflag.FlagSet) (*Config, error) {
	return load(fl.cfgFile, nil, flagSet)
}
