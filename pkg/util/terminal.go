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
package util

import (
	"os"

	"golang.org/x/term"
)

// DEFAULT_TERMINAL_WIDTH is assumed when output is not going to a terminal.
const DEFAULT_TERMINAL_WIDTH uint = 120

// TerminalWidth returns the width (in characters) of the terminal attached to
// stdout, or DEFAULT_TERMINAL_WIDTH when stdout is not a terminal.
func TerminalWidth() uint {
	fd := int(os.Stdout.Fd())
	//
	if !term.IsTerminal(fd) {
		return DEFAULT_TERMINAL_WIDTH
	}
	//
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return DEFAULT_TERMINAL_WIDTH
	}
	//
	return uint(width)
}
