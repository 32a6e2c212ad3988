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
package floodplain

import (
	"fmt"

	"github.com/nichevl/go-niche/pkg/codetable"
	"github.com/nichevl/go-niche/pkg/validate"
)

// Tables holds the five code tables driving a floodplain model.
type Tables = validate.FloodplainTables

// Sources identifies the files from which the code tables of a floodplain model
// are read.  An empty path selects the bundled default table.
type Sources struct {
	Depths       string `mapstructure:"depths"`
	Duration     string `mapstructure:"duration"`
	Frequency    string `mapstructure:"frequency"`
	LnkPotential string `mapstructure:"lnk_potential"`
	Potential    string `mapstructure:"potential"`
}

// DefaultTables returns the bundled floodplain code tables.  These are parsed
// once per process and shared between all models using them.
func DefaultTables() (Tables, error) {
	return LoadTables(Sources{}, nil)
}

// LoadTables reads the code tables identified by the given sources, falling back
// to the bundled table for each source left empty.  When a loader is given,
// tables are read through it.
func LoadTables(sources Sources, loader *codetable.Loader) (Tables, error) {
	var (
		tables Tables
		err    error
	)
	//
	load := func(target **codetable.Table, name string, filename string) {
		if err != nil {
			return
		} else if filename == "" {
			*target, err = codetable.Default("floodplains/" + name)
		} else if loader != nil {
			*target, err = loader.Load(filename)
		} else {
			*target, err = codetable.LoadFile(filename)
		}
		//
		if err != nil {
			err = fmt.Errorf("loading %s table: %w", name, err)
		}
	}
	//
	load(&tables.Depths, "depths", sources.Depths)
	load(&tables.Duration, "duration", sources.Duration)
	load(&tables.Frequency, "frequency", sources.Frequency)
	load(&tables.LnkPotential, "lnk_potential", sources.LnkPotential)
	load(&tables.Potential, "potential", sources.Potential)
	//
	return tables, err
}
