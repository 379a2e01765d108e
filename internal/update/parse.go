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
	"regexp"
	"strings"

	deperrors "github.com/depbatch/depbatch/internal/errors"
)

// Details is the update information extracted from a PR title and body.
// It is a subset of UpdatePR.
type Details struct {
	GroupName string
	IsGroup   bool
	Updates   []DependencyUpdate
}

// Dependabot conventions are matched with a fixed grammar, never guessed.
// A record that fits none of these patterns is a normalization error.
var (
	// Branch names look like dependabot/{package_type}/{name}-{version},
	// with optional directory segments between type and name.
	branchRe = regexp.MustCompile(`^dependabot/([^/]+)/.+$`)

	// Single updates: "Bump foo from 1.0.0 to 2.0.0".
	singleTitleRe = regexp.MustCompile(`(?i)Bump (\S+) from (\S+) to (\S+)`)

	// Grouped updates: "Bump the foo group with 2 updates".
	groupTitleRe = regexp.MustCompile(`(?i)Bump the (\S+) group`)

	// Ungrouped multi-dependency updates: "Bump foo and bar".
	multiTitleRe = regexp.MustCompile(`(?i)Bump (.+)`)

	// Per-update body headings: "Updates `bar` from 1.0.0 to 2.0.0".
	updateHeadingRe = regexp.MustCompile("(?i)Updates `?([^`\\s]+)`? from (\\S+) to (\\S+)")

	// Single-update group PRs omit the headings and instead say
	// "Bumps the foo group with 1 update: bar".
	singleGroupRe = regexp.MustCompile("(?i)Bumps the \\S+ group with 1 update: `?([^`\\s]+)`?")

	detailsRe = regexp.MustCompile(`(?is)<details[^>]*>(.*?)</details>`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)

	// The <hr> separates update notes from the standard Dependabot
	// command help at the bottom of every PR body.
	hrRe = regexp.MustCompile(`(?mi)^\s*(<hr\s*/?>|---)\s*$`)
)

// ParseBranch extracts the package type from a Dependabot branch name.
func ParseBranch(head string) (string, error) {
	m := branchRe.FindStringSubmatch(head)
	if m == nil {
		return "", fmt.Errorf("branch %q does not match the dependabot naming convention: %w", head, deperrors.ErrUnparseablePR)
	}
	return m[1], nil
}

// ParseTitleBody extracts the dependency updates described by a PR title
// and body. PRs updating a single dependency carry the versions in the
// title; grouped PRs carry one "Updates X from A to B" heading per member
// in the body, each followed by its release-note sections.
func ParseTitleBody(title, body string) (Details, error) {
	if m := singleTitleRe.FindStringSubmatch(title); m != nil {
		return Details{
			GroupName: m[1],
			Updates: []DependencyUpdate{{
				Name:        m[1],
				FromVersion: trimVersion(m[2]),
				ToVersion:   trimVersion(m[3]),
				Notes:       notesText(body),
			}},
		}, nil
	}

	var groupName string
	switch {
	case groupTitleRe.MatchString(title):
		groupName = groupTitleRe.FindStringSubmatch(title)[1]
	case multiTitleRe.MatchString(title):
		groupName = strings.TrimSpace(multiTitleRe.FindStringSubmatch(title)[1])
	default:
		return Details{}, fmt.Errorf("title %q does not match known dependabot patterns: %w", title, deperrors.ErrUnparseablePR)
	}

	updates := parseGroupedUpdates(body)
	if len(updates) == 0 {
		m := singleGroupRe.FindStringSubmatch(body)
		if m == nil {
			return Details{}, fmt.Errorf("package names not found in body of %q: %w", title, deperrors.ErrUnparseablePR)
		}
		updates = []DependencyUpdate{{Name: m[1], Notes: notesText(body)}}
	}

	return Details{GroupName: groupName, IsGroup: true, Updates: updates}, nil
}

// parseGroupedUpdates splits the body at the per-update headings and
// gathers release notes from the sections following each heading, up to
// the next heading or the trailing command help.
func parseGroupedUpdates(body string) []DependencyUpdate {
	locs := updateHeadingRe.FindAllStringSubmatchIndex(body, -1)
	if len(locs) == 0 {
		return nil
	}

	updates := make([]DependencyUpdate, 0, len(locs))
	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		region := body[loc[1]:end]
		if hr := hrRe.FindStringIndex(region); hr != nil {
			region = region[:hr[0]]
		}

		updates = append(updates, DependencyUpdate{
			Name:        body[loc[2]:loc[3]],
			FromVersion: trimVersion(body[loc[4]:loc[5]]),
			ToVersion:   trimVersion(body[loc[6]:loc[7]]),
			Notes:       notesText(region),
		})
	}
	return updates
}

// notesText collects the collapsible note sections from a body region,
// skipping the standard Dependabot command help.
func notesText(region string) string {
	var sections []string
	for _, m := range detailsRe.FindAllStringSubmatch(region, -1) {
		text := strings.TrimSpace(stripTags(m[1]))
		if strings.HasPrefix(text, "Dependabot commands and options") {
			continue
		}
		if text != "" {
			sections = append(sections, text)
		}
	}
	return strings.Join(sections, "\n\n")
}

// stripTags removes HTML markup and collapses runs of blank lines.
func stripTags(s string) string {
	s = tagRe.ReplaceAllString(s, "")

	var out []string
	blank := true
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.Join(out, "\n")
}

// trimVersion drops the markup and punctuation Dependabot wraps versions in.
func trimVersion(v string) string {
	return strings.Trim(v, "`.,")
}
