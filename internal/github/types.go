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

import "time"

// SearchPR is a raw Dependabot pull request as returned by the GitHub
// search API. It carries exactly the fields the normalizer needs and is
// not part of the canonical review model.
type SearchPR struct {
	ID             string
	Title          string
	Body           string
	URL            string
	HeadRefName    string
	BaseRefName    string
	Repo           string
	Labels         []string
	MergeMethod    string
	ReviewDecision string
	Mergeable      bool
	RollupState    string // empty when the commit has no status check rollup
	Checks         []RawCheck
}

// RawCheck is a single CI check attached to a pull request's head commit.
// GitHub reports two shapes: check runs (Status/Conclusion) and legacy
// commit statuses (State). Exactly one shape is populated per check.
type RawCheck struct {
	Name string

	// CheckRun fields. Status is QUEUED, IN_PROGRESS or COMPLETED;
	// Conclusion is only meaningful once Status is COMPLETED.
	Status     string
	Conclusion string

	// StatusContext field: SUCCESS, PENDING, EXPECTED, FAILURE or ERROR.
	State string
}

// PullRequestPage represents one page of search results. EndCursor and
// HasNextPage support fetching subsequent pages.
type PullRequestPage struct {
	PullRequests []SearchPR
	IssueCount   int
	HasNextPage  bool
	EndCursor    string
}

// RawAlert is a raw open vulnerability alert from the GitHub API.
type RawAlert struct {
	Repo         string
	Number       int
	GHSAID       string
	Summary      string
	Package      string
	Ecosystem    string
	Severity     string
	VersionRange string
	FixPRURL     string
	CreatedAt    time.Time
}

// AlertPage represents the alerts gathered from one page of an
// organization's repository listing.
type AlertPage struct {
	Alerts      []RawAlert
	HasNextPage bool
	EndCursor   string
}

// FetchOptions configures how Dependabot pull requests are searched.
type FetchOptions struct {
	// Labels are required on every returned PR. The search query sends
	// them server-side.
	Labels []string

	// PageSize controls how many PRs to fetch per page.
	// Defaults to 50 if not specified. Maximum is 100 per GitHub's API limits.
	PageSize int

	// After is the cursor for pagination.
	// Empty string fetches from the beginning.
	// Use PullRequestPage.EndCursor from previous response for next page.
	After string
}

// Default values for fetch operations
const (
	defaultPageSize = 50

	// MaxRecords caps the total number of pull requests fetched per
	// invocation. Operators re-run the tool to continue past the cap.
	MaxRecords = 100
)
