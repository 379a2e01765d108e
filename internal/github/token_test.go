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
	"errors"
	"testing"

	deperrors "github.com/depbatch/depbatch/internal/errors"
)

func TestResolveTokenFromEnv(t *testing.T) {
	t.Setenv("DEPBATCH_TEST_TOKEN", "ghp_fromenv")

	token, err := ResolveToken("DEPBATCH_TEST_TOKEN")
	if err != nil {
		t.Fatalf("ResolveToken() error = %v", err)
	}
	if token != "ghp_fromenv" {
		t.Errorf("token = %q, want ghp_fromenv", token)
	}
}

func TestResolveTokenNoSource(t *testing.T) {
	t.Setenv("DEPBATCH_TEST_TOKEN", "")
	// An empty PATH hides any installed gh CLI, and test stdin is not a
	// terminal, so the prompt source is skipped too.
	t.Setenv("PATH", t.TempDir())

	_, err := ResolveToken("DEPBATCH_TEST_TOKEN")
	if !errors.Is(err, deperrors.ErrNoToken) {
		t.Errorf("ResolveToken() error = %v, want ErrNoToken", err)
	}
}
