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
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ReadCSV parses a code table from a comma separated stream.  The first record
// is the header, and every subsequent record is a row.
func ReadCSV(name string, reader io.Reader) (*Table, error) {
	records, err := csv.NewReader(reader).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading table \"%s\": %w", name, err)
	} else if len(records) == 0 {
		return nil, fmt.Errorf("reading table \"%s\": missing header", name)
	}
	//
	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	//
	return FromRecords(name, header, records[1:])
}

// ReadYAML parses a code table from a YAML sequence of mappings, where each
// mapping is one row.  The columns of the table are the keys of the first row
// (in order), and every other row must have exactly the same keys.
func ReadYAML(name string, reader io.Reader) (*Table, error) {
	var (
		doc     yaml.Node
		columns []string
		rows    [][]Value
	)
	//
	if err := yaml.NewDecoder(reader).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading table \"%s\": %w", name, err)
	}
	// Empty document
	if len(doc.Content) == 0 {
		return NewTable(name, nil, nil)
	}
	//
	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("reading table \"%s\": expected sequence of rows (line %d)", name, seq.Line)
	}
	//
	for i, node := range seq.Content {
		if node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("reading table \"%s\": row %d is not a mapping (line %d)", name, i, node.Line)
		}
		//
		if i == 0 {
			for j := 0; j < len(node.Content); j += 2 {
				columns = append(columns, node.Content[j].Value)
			}
		}
		//
		row, err := yamlRow(name, columns, node)
		if err != nil {
			return nil, err
		}
		//
		rows = append(rows, row)
	}
	//
	return NewTable(name, columns, rows)
}

func yamlRow(name string, columns []string, node *yaml.Node) ([]Value, error) {
	var (
		row    = make([]Value, len(columns))
		filled = make([]bool, len(columns))
	)
	//
	if len(node.Content) != 2*len(columns) {
		return nil, fmt.Errorf("reading table \"%s\": row has %d columns, expected %d (line %d)", name,
			len(node.Content)/2, len(columns), node.Line)
	}
	//
	for j := 0; j < len(node.Content); j += 2 {
		key, val := node.Content[j], node.Content[j+1]
		col := -1
		//
		for k, c := range columns {
			if c == key.Value {
				col = k
				break
			}
		}
		//
		if col < 0 || filled[col] {
			return nil, fmt.Errorf("reading table \"%s\": unexpected column \"%s\" (line %d)", name, key.Value,
				key.Line)
		}
		//
		row[col], filled[col] = yamlValue(val), true
	}
	//
	return row, nil
}

func yamlValue(node *yaml.Node) Value {
	switch node.ShortTag() {
	case "!!int", "!!float":
		return ParseValue(node.Value)
	case "!!null":
		return StringValue("")
	}
	//
	return StringValue(node.Value)
}

// LoadFile reads a code table from a file, choosing the format based on its
// extension.  The table is named after the file (without extension).
func LoadFile(filename string) (*Table, error) {
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filepath.Base(filename), ext)
	//
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	//
	defer file.Close()
	//
	log.Debugf("reading code table %s", filename)
	//
	switch strings.ToLower(ext) {
	case ".csv":
		return ReadCSV(name, file)
	case ".yaml", ".yml":
		return ReadYAML(name, file)
	default:
		return nil, fmt.Errorf("unknown code table format: %s", ext)
	}
}
