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
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Config_Defaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	//
	assert.Equal(t, "output", cfg.Output.Folder)
	assert.Equal(t, "T2", cfg.Floodplain.Frequency)
	assert.Equal(t, 1, cfg.Floodplain.Duration)
	assert.Equal(t, "summer", cfg.Floodplain.Period)
	assert.Empty(t, cfg.Tables.LnkPotential)
}

func Test_Config_File(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "niche.yaml")
	contents := `output:
  folder: results
  name: zwalm
floodplain:
  frequency: T25
  duration: 2
tables:
  lnk_potential: tables/lnk_potential.csv
`
	require.NoError(t, os.WriteFile(filename, []byte(contents), 0o644))
	//
	loader := NewLoader()
	require.NoError(t, loader.ReadFile(filename))
	//
	cfg, err := loader.Load()
	require.NoError(t, err)
	//
	assert.Equal(t, "results", cfg.Output.Folder)
	assert.Equal(t, "zwalm", cfg.Output.Name)
	assert.Equal(t, "T25", cfg.Floodplain.Frequency)
	assert.Equal(t, 2, cfg.Floodplain.Duration)
	assert.Equal(t, "summer", cfg.Floodplain.Period)
	assert.Equal(t, "tables/lnk_potential.csv", cfg.Tables.LnkPotential)
	//
	assert.Error(t, NewLoader().ReadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func Test_Config_Env(t *testing.T) {
	t.Setenv("NICHE_OUTPUT_FOLDER", "elsewhere")
	t.Setenv("NICHE_FLOODPLAIN_PERIOD", "winter")
	//
	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	//
	assert.Equal(t, "elsewhere", cfg.Output.Folder)
	assert.Equal(t, "winter", cfg.Floodplain.Period)
}

func Test_Config_Flags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("frequency", "T2", "")
	flags.Int("duration", 1, "")
	//
	loader := NewLoader()
	require.NoError(t, loader.BindFlag("floodplain.frequency", flags.Lookup("frequency")))
	require.NoError(t, loader.BindFlag("floodplain.duration", flags.Lookup("duration")))
	assert.Error(t, loader.BindFlag("output.name", flags.Lookup("name")))
	//
	require.NoError(t, flags.Parse([]string{"--frequency", "T100"}))
	//
	cfg, err := loader.Load()
	require.NoError(t, err)
	//
	assert.Equal(t, "T100", cfg.Floodplain.Frequency)
	assert.Equal(t, 1, cfg.Floodplain.Duration)
}
