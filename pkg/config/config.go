// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nichevl/go-niche/pkg/floodplain"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ENV_PREFIX is the prefix of environment variables overriding configuration
// keys (e.g. NICHE_OUTPUT_FOLDER for "output.folder").
const ENV_PREFIX = "NICHE"

// Config is the configuration shared by the niche commands.
type Config struct {
	Output     Output             `mapstructure:"output"`
	Floodplain Floodplain         `mapstructure:"floodplain"`
	Tables     floodplain.Sources `mapstructure:"tables"`
}

// Output determines where, and under which name, results are written.
type Output struct {
	Folder string `mapstructure:"folder"`
	Name   string `mapstructure:"name"`
}

// Floodplain holds the default flooding scenario.
type Floodplain struct {
	Frequency string `mapstructure:"frequency"`
	Duration  int    `mapstructure:"duration"`
	Period    string `mapstructure:"period"`
}

// Defaults applied to keys not otherwise set.
var defaults = map[string]any{
	"output.folder":        "output",
	"output.name":          "",
	"floodplain.frequency": "T2",
	"floodplain.duration":  1,
	"floodplain.period":    "summer",
	"tables.depths":        "",
	"tables.duration":      "",
	"tables.frequency":     "",
	"tables.lnk_potential": "",
	"tables.potential":     "",
}

// Loader reads the configuration from (in increasing priority) defaults, an
// optional configuration file, environment variables and command-line flags.
type Loader struct {
	v *viper.Viper
}

// NewLoader constructs a configuration loader with all defaults in place.
func NewLoader() *Loader {
	v := viper.New()
	//
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	//
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	//
	return &Loader{v}
}

// BindFlag binds a configuration key to a command-line flag, such that the
// flag overrides the key when set explicitly.
func (p *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag for configuration key \"%s\"", key)
	}
	//
	return p.v.BindPFlag(key, flag)
}

// ReadFile reads a configuration file.  When filename is empty, a file named
// "niche" (e.g. niche.yaml) is searched for in the current directory, and its
// absence is not an error.
func (p *Loader) ReadFile(filename string) error {
	if filename != "" {
		p.v.SetConfigFile(filename)
	} else {
		p.v.SetConfigName("niche")
		p.v.AddConfigPath(".")
	}
	//
	if err := p.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		//
		if filename == "" && errors.As(err, &notFound) {
			return nil
		}
		//
		return fmt.Errorf("reading configuration: %w", err)
	}
	//
	log.Debugf("using configuration file %s", p.v.ConfigFileUsed())
	//
	return nil
}

// Load returns the configuration currently in effect.
func (p *Loader) Load() (Config, error) {
	var cfg Config
	//
	if err := p.v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	//
	return cfg, nil
}
