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

package update

import (
	"fmt"

	deperrors "github.com/depbatch/depbatch/internal/errors"
	"github.com/depbatch/depbatch/internal/github"
)

// Normalize builds an UpdatePR from a raw search record. Package type and
// dependency names must be derivable from the branch name and title/body;
// when they are not, the error wraps errors.ErrUnparseablePR and the caller
// decides whether to skip and log.
func Normalize(raw github.SearchPR) (UpdatePR, error) {
	packageType, err := ParseBranch(raw.HeadRefName)
	if err != nil {
		return UpdatePR{}, err
	}

	details, err := ParseTitleBody(raw.Title, raw.Body)
	if err != nil {
		return UpdatePR{}, err
	}

	return UpdatePR{
		ID:          raw.ID,
		Repo:        raw.Repo,
		Title:       raw.Title,
		HeadRef:     raw.HeadRefName,
		BaseRef:     raw.BaseRefName,
		PackageType: packageType,
		GroupName:   details.GroupName,
		IsGroup:     details.IsGroup,
		Updates:     details.Updates,
		Checks:      normalizeChecks(raw),
		Labels:      raw.Labels,
		Mergeable:   raw.Mergeable,
		Approved:    raw.ReviewDecision == "APPROVED",
		MergeMethod: raw.MergeMethod,
		URL:         raw.URL,
	}, nil
}

// normalizeChecks maps the raw check contexts onto the canonical statuses.
// When the rollup reports a state but no individual contexts, a single
// synthetic check carries the rollup state so the tally stays honest.
func normalizeChecks(raw github.SearchPR) []Check {
	if len(raw.Checks) == 0 {
		if raw.RollupState == "" {
			return nil
		}
		return []Check{{Name: "checks", Status: rollupStatus(raw.RollupState)}}
	}

	checks := make([]Check, 0, len(raw.Checks))
	for _, rc := range raw.Checks {
		checks = append(checks, Check{Name: rc.Name, Status: checkStatus(rc)})
	}
	return checks
}

// checkStatus maps one raw check. Legacy commit statuses carry State;
// check runs carry Status and Conclusion. Unrecognized terminal states are
// treated as failed.
func checkStatus(rc github.RawCheck) CheckStatus {
	if rc.State != "" {
		return rollupStatus(rc.State)
	}
	if rc.Status != "COMPLETED" {
		return CheckPending
	}
	switch rc.Conclusion {
	case "SUCCESS", "NEUTRAL", "SKIPPED":
		return CheckPassed
	default:
		return CheckFailed
	}
}

// rollupStatus maps a rollup or commit status state.
func rollupStatus(state string) CheckStatus {
	switch state {
	case "SUCCESS":
		return CheckPassed
	case "PENDING", "EXPECTED":
		return CheckPending
	default:
		return CheckFailed
	}
}

// NormalizeAlert builds an Alert from a raw vulnerability alert record.
func NormalizeAlert(owner string, raw github.RawAlert) (Alert, error) {
	if raw.Repo == "" || raw.Package == "" {
		return Alert{}, fmt.Errorf("alert %d is missing repository or package: %w", raw.Number, deperrors.ErrUnparseablePR)
	}

	return Alert{
		Repo:         raw.Repo,
		Number:       raw.Number,
		AdvisoryID:   raw.GHSAID,
		Summary:      raw.Summary,
		Package:      raw.Package,
		Ecosystem:    raw.Ecosystem,
		Severity:     raw.Severity,
		VersionRange: raw.VersionRange,
		URL:          fmt.Sprintf("https://github.com/%s/%s/security/dependabot/%d", owner, raw.Repo, raw.Number),
		FixPR:        raw.FixPRURL,
		CreatedAt:    raw.CreatedAt,
	}, nil
}
