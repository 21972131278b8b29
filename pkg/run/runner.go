/*
   CasPack - MSX cassette image packager
   Copyright (c) 2022, Alexander Vollschwitz

   This file is part of CasPack.

   CasPack is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   CasPack is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with CasPack. If not, see <http://www.gnu.org/licenses/>.
*/

package run

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const runnerHelpEpilogue = `- All settings can also be given via environment variables, e.g. CASPACK_INPUT
  for --input, and via a config file named by --config or CASPACK_CONFIG.

`

//
type setting struct {
	ref      interface{}
	name     string
	required bool
}

// NewRunner creates a runner for a command. exec is called once all settings
// have been parsed from the command line.
func NewRunner(use, short, long, helpPrologue, helpEpilogue string,
	exec func() error) *Runner {

	ret := &Runner{
		viper:        viper.New(),
		exec:         exec,
		helpPrologue: helpPrologue,
		helpEpilogue: helpEpilogue,
	}

	ret.Command = cobra.Command{
		Use:           use,
		Short:         short,
		Long:          long,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	return ret
}

// Runner is the base for all commands. It binds each setting to a command line
// flag, an environment variable, and a config file entry, in decreasing order
// of precedence.
type Runner struct {
	cobra.Command
	//
	LogLevel string
	Config   string
	//
	viper        *viper.Viper
	exec         func() error
	settings     []*setting
	positional   []string
	helpPrologue string
	helpEpilogue string
}

// AddBaseSettings adds the settings common to all commands.
func (r *Runner) AddBaseSettings() {
	r.AddSetting(&r.LogLevel, "log-level", "l", "LOG_LEVEL", "info",
		"log level (panic, fatal, error, warn, info, debug, trace)", false)
	r.AddSetting(&r.Config, "config", "", "CASPACK_CONFIG", nil,
		"config file (yaml, json, or toml)", false)
}

// AddSetting adds a setting. ref points to the variable receiving the parsed
// value, and can be of type *string, *int, *bool, or *[]string. If env is
// empty, the environment variable is derived from name, e.g. CASPACK_INPUT for
// input. A nil dflt selects the type's zero value.
func (r *Runner) AddSetting(ref interface{}, name, short, env string,
	dflt interface{}, usage string, required bool) {

	flags := r.Flags()

	switch v := ref.(type) {

	case *string:
		d, _ := dflt.(string)
		flags.StringVarP(v, name, short, d, usage)

	case *int:
		d, _ := dflt.(int)
		flags.IntVarP(v, name, short, d, usage)

	case *bool:
		d, _ := dflt.(bool)
		flags.BoolVarP(v, name, short, d, usage)

	case *[]string:
		d, _ := dflt.([]string)
		flags.StringSliceVarP(v, name, short, d, usage)

	default:
		panic(fmt.Sprintf("unsupported setting type for '%s': %T", name, ref))
	}

	if env == "" {
		env = EnvName(name)
	}

	r.viper.BindPFlag(name, flags.Lookup(name))
	r.viper.BindEnv(name, env)

	r.settings = append(r.settings, &setting{
		ref: ref, name: name, required: required})
}

// ParseSettings resolves all settings into their variables, considering flags,
// environment, and config file. It also applies the log level.
func (r *Runner) ParseSettings() error {

	if r.Config = r.viper.GetString("config"); r.Config != "" {
		r.viper.SetConfigFile(r.Config)
		if err := r.viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file '%s': %v", r.Config, err)
		}
		log.WithField("file", r.Config).Debug("config file loaded")
	}

	for _, s := range r.settings {

		if s.required && !r.viper.IsSet(s.name) {
			return fmt.Errorf("required setting '%s' not set", s.name)
		}

		switch v := s.ref.(type) {
		case *string:
			*v = r.viper.GetString(s.name)
		case *int:
			*v = r.viper.GetInt(s.name)
		case *bool:
			*v = r.viper.GetBool(s.name)
		case *[]string:
			*v = r.viper.GetStringSlice(s.name)
		}
	}

	if r.LogLevel != "" {
		level, err := log.ParseLevel(r.LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	log.WithFields(r.effective()).Debug("settings")
	return nil
}

// IsSet returns whether a setting was given explicitly, via flag, environment,
// or config file.
func (r *Runner) IsSet(name string) bool {
	return r.viper.IsSet(name)
}

// Positional returns the command line arguments remaining after flag parsing.
func (r *Runner) Positional() []string {
	return r.positional
}

// Cobra returns the cobra command for this runner, ready to be added to a root
// command.
func (r *Runner) Cobra() *cobra.Command {

	r.RunE = func(cmd *cobra.Command, args []string) error {
		r.positional = args
		return r.exec()
	}

	if r.helpPrologue != "" || r.helpEpilogue != "" {
		r.SetUsageTemplate(fmt.Sprintf("%s%s\n%s",
			r.helpPrologue, r.UsageTemplate(), r.helpEpilogue))
	}

	return &r.Command
}

// EnvName returns the environment variable for a setting.
func EnvName(setting string) string {
	return "CASPACK_" + strings.ToUpper(strings.ReplaceAll(setting, "-", "_"))
}

// effective returns the resolved values of all settings, for logging.
func (r *Runner) effective() log.Fields {
	ret := log.Fields{}
	r.Flags().VisitAll(func(f *pflag.Flag) {
		ret[f.Name] = r.viper.Get(f.Name)
	})
	return ret
}
