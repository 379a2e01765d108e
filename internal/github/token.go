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

package github

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"

	deperrors "github.com/depbatch/depbatch/internal/errors"
)

// tokenSource is one strategy for obtaining a GitHub token. Returning an
// empty token with a nil error means the source had nothing to offer and
// the next source is tried.
type tokenSource struct {
	name    string
	resolve func() (string, error)
}

// ResolveToken obtains a GitHub API token. Sources are tried in order:
//
//  1. the environment variable named by envVar
//  2. the locally installed gh CLI (gh auth token)
//  3. an interactive no-echo prompt, when stdin is a terminal
//
// Callers may rely on this ordering. Returns errors.ErrNoToken when every
// source comes up empty.
func ResolveToken(envVar string) (string, error) {
	sources := []tokenSource{
		{name: "environment", resolve: func() (string, error) {
			return os.Getenv(envVar), nil
		}},
		{name: "gh CLI", resolve: ghCLIToken},
		{name: "prompt", resolve: promptToken},
	}

	for _, src := range sources {
		token, err := src.resolve()
		if err != nil {
			// A failing source is not fatal; fall through to the next one.
			continue
		}
		if token != "" {
			return token, nil
		}
	}

	return "", fmt.Errorf("set %s, run 'gh auth login', or enter a token at the prompt: %w", envVar, deperrors.ErrNoToken)
}

// ghCLIToken asks the gh CLI for its stored credential.
func ghCLIToken() (string, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return "", nil
	}
	out, err := exec.Command("gh", "auth", "token").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// promptToken reads a token from the terminal without echo. Skipped in
// non-interactive environments.
func promptToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}

	fmt.Fprint(os.Stderr, "GitHub API token: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
