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

// Package update defines the canonical review model and the normalizer that
// builds it from raw GitHub records. Values are immutable once constructed;
// only the normalizer creates them.
package update

import "time"

// CheckStatus summarizes the result of a single CI check.
type CheckStatus int

const (
	CheckPending CheckStatus = iota
	CheckPassed
	CheckFailed
)

// String returns the operator-facing description of the status.
func (s CheckStatus) String() string {
	switch s {
	case CheckPassed:
		return "passed"
	case CheckFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Check is one CI check attached to a pull request.
type Check struct {
	Name   string
	Status CheckStatus
}

// CheckAggregate tallies the checks of a single pull request. It is derived
// on demand from the check list, never stored.
type CheckAggregate struct {
	Passed  int
	Failed  int
	Pending int
}

// Aggregate computes the check tally for a check list.
func Aggregate(checks []Check) CheckAggregate {
	var agg CheckAggregate
	for _, c := range checks {
		switch c.Status {
		case CheckPassed:
			agg.Passed++
		case CheckFailed:
			agg.Failed++
		default:
			agg.Pending++
		}
	}
	return agg
}

// AllPassed reports whether the update passes review gating: at least one
// check reported, none failed, none pending. A PR whose head commit carries
// no CI at all is never merge-eligible; the operator merges it by hand.
func (a CheckAggregate) AllPassed() bool {
	return a.Passed > 0 && a.Failed == 0 && a.Pending == 0
}

// DependencyUpdate is one dependency version bump inside a pull request.
// FromVersion and ToVersion may be empty when the PR details do not state
// them (single-update group PRs omit the versions).
type DependencyUpdate struct {
	Name        string
	FromVersion string
	ToVersion   string

	// Notes holds the release notes and changelog extracted from the PR
	// body for this update.
	Notes string
}

// UpdatePR is a normalized Dependabot pull request.
type UpdatePR struct {
	ID      string
	Repo    string
	Title   string
	HeadRef string
	BaseRef string

	// PackageType is parsed from the branch name, e.g. "npm_and_yarn".
	PackageType string

	// GroupName is the Dependabot group label for grouped updates, or the
	// dependency name for single updates. IsGroup distinguishes the two.
	GroupName string
	IsGroup   bool

	Updates []DependencyUpdate
	Checks  []Check
	Labels  []string

	Mergeable   bool
	Approved    bool
	MergeMethod string
	URL         string
}

// CheckAggregate returns the derived check tally for this PR.
func (p UpdatePR) CheckAggregate() CheckAggregate {
	return Aggregate(p.Checks)
}

// GroupKey returns the key this PR groups under: the group label when
// present, otherwise the primary dependency name.
func (p UpdatePR) GroupKey() string {
	if p.IsGroup {
		return p.GroupName
	}
	if len(p.Updates) > 0 {
		return p.Updates[0].Name
	}
	return p.GroupName
}

// Alert is a normalized open vulnerability alert.
type Alert struct {
	Repo         string
	Number       int
	AdvisoryID   string
	Summary      string
	Package      string
	Ecosystem    string
	Severity     string
	VersionRange string
	URL          string
	FixPR        string
	CreatedAt    time.Time
}
