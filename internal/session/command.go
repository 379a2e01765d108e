// Copyright 2026 Depbatch Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Command is one input symbol of the review state machine.
type Command int

const (
	CommandMerge Command = iota
	CommandSkip
	CommandQuit
	CommandNotes
	CommandURLs
)

// commandNames in prompt order. Prefix matching follows this order, so "s"
// resolves to skip and "q" to quit.
var commandNames = []struct {
	name string
	cmd  Command
}{
	{"merge", CommandMerge},
	{"skip", CommandSkip},
	{"quit", CommandQuit},
	{"notes", CommandNotes},
	{"urls", CommandURLs},
}

// Prompt tells the operator what commands are available.
const Prompt = "[m]erge passing, [s]kip, [q]uit, review [n]otes, list [u]rls"

// ParseCommand resolves user input to a command. Exact matches win; a
// unique-by-order prefix match is accepted. Matching is case-insensitive.
func ParseCommand(input string) (Command, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return 0, false
	}

	for _, c := range commandNames {
		if c.name == input {
			return c.cmd, true
		}
	}
	for _, c := range commandNames {
		if strings.HasPrefix(c.name, input) {
			return c.cmd, true
		}
	}
	return 0, false
}

// Terminal is the collaborator the session blocks on while presenting a
// group. Implementations return io.EOF (or any error) to abort the session,
// which the session treats as quit.
type Terminal interface {
	ReadCommand(prompt string) (Command, error)
}

// IOTerminal reads commands from an input stream, re-prompting until the
// input resolves to a command.
type IOTerminal struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewIOTerminal creates a Terminal reading from in and prompting on out.
func NewIOTerminal(in io.Reader, out io.Writer) *IOTerminal {
	return &IOTerminal{scanner: bufio.NewScanner(in), out: out}
}

// ReadCommand implements Terminal.
func (t *IOTerminal) ReadCommand(prompt string) (Command, error) {
	for {
		fmt.Fprintf(t.out, "%s > ", prompt)
		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		if cmd, ok := ParseCommand(t.scanner.Text()); ok {
			return cmd, nil
		}
	}
}
