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

// Package render formats review output for the terminal. All functions take
// an io.Writer; styling degrades to plain text when stdout is not a TTY.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/depbatch/depbatch/internal/grouping"
	"github.com/depbatch/depbatch/internal/update"
)

var (
	bold    = lipgloss.NewStyle().Bold(true)
	passed  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failed  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	pending = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	faint   = lipgloss.NewStyle().Faint(true)
)

// maxNotesLines caps the notes block; anything longer points the operator
// at the PR page instead.
const maxNotesLines = 35

// FetchSummary prints the pre-session line: how many PRs were found, how
// many groups they form, and how many raw records failed normalization.
func FetchSummary(w io.Writer, prs, groups, skipped int) {
	fmt.Fprintf(w, "Found %d PRs for %d dependencies\n", prs, groups)
	if skipped > 0 {
		fmt.Fprintln(w, faint.Render(fmt.Sprintf("Skipped %d unparseable PRs (see log)", skipped)))
	}
	fmt.Fprintln(w)
}

// GroupHeader prints the "N updates for group X:" line.
func GroupHeader(w io.Writer, g grouping.UpdateGroup) {
	kind := "dependency"
	if g.IsGroup() {
		kind = "group"
	}
	fmt.Fprintf(w, "%d updates for %s %s:\n", len(g.Members), kind, bold.Render(g.Key))
}

// GroupSummary prints the version bumps, the check tally, and the URLs of
// members whose checks are not all passing.
func GroupSummary(w io.Writer, g grouping.UpdateGroup) {
	fmt.Fprintln(w, "Versions:")
	for _, b := range g.Bumps() {
		from, to := b.FromVersion, b.ToVersion
		if from == "" {
			from = "(unknown)"
		}
		if to == "" {
			to = "(unknown)"
		}
		fmt.Fprintf(w, "  %s %s -> %s\n", b.Name, from, to)
	}

	var parts []string
	if g.Tally.Passed > 0 {
		parts = append(parts, passed.Render(fmt.Sprintf("%d passed", g.Tally.Passed)))
	}
	if g.Tally.Failed > 0 {
		parts = append(parts, failed.Render(fmt.Sprintf("%d failed", g.Tally.Failed)))
	}
	if g.Tally.Pending > 0 {
		parts = append(parts, pending.Render(fmt.Sprintf("%d pending", g.Tally.Pending)))
	}
	if len(parts) == 0 {
		parts = append(parts, faint.Render("none"))
	}
	fmt.Fprintf(w, "Checks: %s\n", strings.Join(parts, ", "))

	for _, m := range g.Members {
		agg := m.CheckAggregate()
		if agg.AllPassed() {
			continue
		}
		state := "pending"
		switch {
		case agg.Failed > 0:
			state = "failed"
		case agg.Passed+agg.Pending == 0:
			state = "missing"
		}
		fmt.Fprintf(w, "  %s checks %s\n", m.URL, state)
	}
}

// Notes prints the release notes captured for the group's first member,
// capped at maxNotesLines.
func Notes(w io.Writer, g grouping.UpdateGroup) {
	if len(g.Members) == 0 {
		return
	}

	var lines []string
	for _, u := range g.Members[0].Updates {
		if u.Notes == "" {
			continue
		}
		lines = append(lines, strings.Split(u.Notes, "\n")...)
	}

	if len(lines) == 0 {
		fmt.Fprintln(w, faint.Render("  (no release notes captured)"))
		return
	}

	if len(lines) > maxNotesLines {
		lines = lines[:maxNotesLines]
		lines = append(lines, faint.Render("... (open the PR to see full notes)"))
	}
	for _, line := range lines {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// URLList prints each member PR's URL in member order.
func URLList(w io.Writer, g grouping.UpdateGroup) {
	for _, m := range g.Members {
		fmt.Fprintf(w, "  %s\n", m.URL)
	}
}

// MergeAttempt prints the line preceding a merge call.
func MergeAttempt(w io.Writer, url string) {
	fmt.Fprintf(w, "Merging %s ...\n", url)
}

// MergeFailure reports a refused merge without interrupting the group.
func MergeFailure(w io.Writer, url string, err error) {
	fmt.Fprintf(w, "%s %s: %v\n", failed.Render("Merge failed:"), url, err)
}

// RunSummary prints the end-of-session outcome tally.
func RunSummary(w io.Writer, merged, mergeFailed, skipped, notAttempted int) {
	fmt.Fprintf(w, "\nDone: %s, %s, %d skipped, %d not attempted\n",
		passed.Render(fmt.Sprintf("%d merged", merged)),
		failed.Render(fmt.Sprintf("%d failed", mergeFailed)),
		skipped, notAttempted)
}

// Alerts prints the vulnerability report for the terminal.
func Alerts(w io.Writer, alerts []update.Alert, owner string) {
	fmt.Fprintf(w, "Found %d vulnerabilities.\n\n", len(alerts))
	for _, a := range alerts {
		fmt.Fprintf(w, "%s/%s: %s %s\n",
			owner, a.Repo, bold.Render(a.Package), severityStyle(a.Severity).Render(a.Severity))
		fmt.Fprintf(w, "  %s\n", a.Summary)
		fmt.Fprintf(w, "  %s\n", a.URL)
		if a.FixPR != "" {
			fmt.Fprintf(w, "  Resolved by: %s\n", a.FixPR)
		}
		fmt.Fprintln(w)
	}
}

func severityStyle(severity string) lipgloss.Style {
	switch strings.ToUpper(severity) {
	case "CRITICAL", "HIGH":
		return failed
	case "MODERATE", "MEDIUM":
		return pending
	default:
		return faint
	}
}
