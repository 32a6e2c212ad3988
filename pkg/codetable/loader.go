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
	"path/filepath"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

// Loader reads code tables from files, retaining every table it has parsed so
// that subsequent requests for the same file are served from memory.  Since
// tables are immutable, the same table can safely be shared between models.
type Loader struct {
	tables *cache.Cache
}

// NewLoader constructs a loader with an empty cache.
func NewLoader() *Loader {
	return &Loader{cache.New(cache.NoExpiration, 0)}
}

// Load returns the table held in a given file, reading it only if it has not
// been read before.
func (p *Loader) Load(filename string) (*Table, error) {
	key, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	//
	if table, ok := p.tables.Get(key); ok {
		log.Debugf("using cached code table %s", key)
		return table.(*Table), nil
	}
	//
	table, err := LoadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	p.tables.SetDefault(key, table)
	log.Debugf("cached code table %s (%d held)", key, p.Len())
	//
	return table, nil
}

// Len returns the number of tables currently held by this loader.
func (p *Loader) Len() int {
	return p.tables.ItemCount()
}
