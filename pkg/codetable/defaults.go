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
package codetable

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
)

//go:embed defaults
var resources embed.FS

// Default tables are parsed once, on first use, and then shared.
var defaults = sync.OnceValues(func() (map[string]*Table, error) {
	tables := make(map[string]*Table)
	//
	err := fs.WalkDir(resources, "defaults", func(filename string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(filename) != ".csv" {
			return err
		}
		//
		file, err := resources.Open(filename)
		if err != nil {
			return err
		}
		//
		defer file.Close()
		//
		key := strings.TrimSuffix(strings.TrimPrefix(filename, "defaults/"), ".csv")
		//
		table, err := ReadCSV(path.Base(key), file)
		if err == nil {
			tables[key] = table
		}
		//
		return err
	})
	//
	return tables, err
})

// Default returns one of the bundled code tables, identified by its group and
// name (e.g. "floodplains/depths").
func Default(key string) (*Table, error) {
	tables, err := defaults()
	if err != nil {
		return nil, err
	} else if table, ok := tables[key]; ok {
		return table, nil
	}
	//
	return nil, fmt.Errorf("unknown default code table \"%s\"", key)
}

// Defaults returns the keys of all bundled code tables.
func Defaults() []string {
	tables, _ := defaults()
	keys := make([]string, 0, len(tables))
	//
	for k := range tables {
		keys = append(keys, k)
	}
	//
	slices.Sort(keys)
	//
	return keys
}
