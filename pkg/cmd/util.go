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
package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/nichevl/go-niche/pkg/codetable"
	"github.com/nichevl/go-niche/pkg/config"
	"github.com/nichevl/go-niche/pkg/floodplain"
	"github.com/nichevl/go-niche/pkg/validate"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exit if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetInt gets an expected signed integer, or exit if an error arises.
func GetInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetString gets an expected string, or exit if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetStringArray gets an expected string array, or exit if an error arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// Bind flags of a command to configuration keys, such that explicitly given
// flags take precedence over configuration files and environment variables.
func bindFlags(cmd *cobra.Command, bindings map[string]string) {
	for key, flag := range bindings {
		if err := settings.BindFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			fail(2, err)
		}
	}
}

// Load the configuration currently in effect, or exit.
func loadConfig() config.Config {
	cfg, err := settings.Load()
	if err != nil {
		fail(2, err)
	}
	//
	return cfg
}

// Read a code table which is either one of the bundled defaults (e.g.
// "floodplains/depths") or a file.
func readTable(name string) (*codetable.Table, error) {
	if slices.Contains(codetable.Defaults(), name) {
		return codetable.Default(name)
	}
	//
	return tableCache.Load(name)
}

// Parse vegetation grids given as "code=filename".
func parseVegetationFiles(items []string) (map[int]string, error) {
	files := make(map[int]string)
	//
	for _, item := range items {
		split := strings.SplitN(item, "=", 2)
		if len(split) != 2 {
			return nil, fmt.Errorf("malformed vegetation grid \"%s\" (expected code=file)", item)
		}
		//
		code, err := strconv.Atoi(split[0])
		if err != nil {
			return nil, fmt.Errorf("invalid vegetation code \"%s\"", split[0])
		}
		//
		files[code] = split[1]
	}
	//
	return files, nil
}

// Report an error and exit.  Invalid tables or inputs are reported in full,
// since the messages enumerate the offending values.
func fail(status int, err error) {
	var (
		tableErr *validate.TableError
		codeErr  *validate.CodeError
		fpErr    *floodplain.Error
	)
	//
	switch {
	case errors.As(err, &tableErr):
		log.WithField("check", tableErr.Check).Error(tableErr.Error())
	case errors.As(err, &codeErr):
		log.WithField("input", codeErr.Name).Error(codeErr.Error())
	case errors.As(err, &fpErr):
		log.WithField("model", "floodplain").Error(fpErr.Error())
	default:
		log.Error(err)
	}
	//
	os.Exit(status)
}
