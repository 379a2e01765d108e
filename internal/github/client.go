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

import "context"

// Client defines the interface for interacting with GitHub's API.
// This interface allows for easy mocking in tests.
type Client interface {
	// FetchDependencyPRs retrieves one page of open Dependabot pull
	// requests across the owner's repositories. Cursor-based pagination
	// via opts.After; page size via opts.PageSize.
	FetchDependencyPRs(ctx context.Context, owner string, opts FetchOptions) (*PullRequestPage, error)

	// FetchAlerts retrieves open vulnerability alerts for one page of the
	// owner's repositories. An empty cursor fetches from the beginning.
	FetchAlerts(ctx context.Context, owner, cursor string) (*AlertPage, error)

	// MergePullRequest merges a single pull request by node ID using the
	// given merge method (MERGE, SQUASH or REBASE). A refusal by GitHub
	// is returned wrapped around errors.ErrMergeRejected.
	MergePullRequest(ctx context.Context, prID, mergeMethod string) error
}
