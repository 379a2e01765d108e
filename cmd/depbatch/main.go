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

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	deperrors "github.com/depbatch/depbatch/internal/errors"
	"github.com/depbatch/depbatch/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "depbatch",
		Short: "Batch-review Dependabot pull requests and security alerts",
		Long: `Depbatch finds the open Dependabot pull requests across a GitHub user or
organization, groups them by dependency or update group, and walks you
through an interactive merge/skip review. It can also list open security
alerts and hand a report off to Slack.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	rootCmd.AddCommand(newReviewCommand())
	rootCmd.AddCommand(newAlertsCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, deperrors.ErrNoToken) ||
		errors.Is(err, deperrors.ErrInvalidToken) ||
		errors.Is(err, deperrors.ErrOwnerNotFound) ||
		errors.Is(err, deperrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, deperrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
