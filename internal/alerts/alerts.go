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

// Package alerts is the read-only pipeline over open vulnerability alerts:
// fetch, normalize, deduplicate, order, and optionally hand a formatted
// report to a notifier. Alerts are resolved out-of-band by the operator;
// this tool only surfaces them.
package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/depbatch/depbatch/internal/github"
	"github.com/depbatch/depbatch/internal/update"
)

// Notifier delivers a pre-formatted report to a destination. The pipeline
// knows nothing about the transport's wire format.
type Notifier interface {
	Post(ctx context.Context, channel, text string) error
}

// List fetches and normalizes every open alert for the owner, deduplicated
// by (repository, advisory): repeated alerts of the same advisory against
// the same repository collapse to one, which silences lockfile noise.
// Ordered by repository name, then advisory identifier. The second return
// is the count of malformed records that were skipped.
func List(ctx context.Context, client github.Client, owner string, log *slog.Logger) ([]update.Alert, int, error) {
	it := github.NewAlertIterator(client, owner)

	seen := make(map[string]bool)
	var alerts []update.Alert
	skipped := 0

	for {
		page, err := it.Next(ctx)
		if err != nil {
			return nil, 0, err
		}
		if page == nil {
			break
		}

		for _, raw := range page.Alerts {
			a, err := update.NormalizeAlert(owner, raw)
			if err != nil {
				skipped++
				log.Warn("skipping malformed alert", "repo", raw.Repo, "number", raw.Number, "error", err)
				continue
			}

			key := a.Repo + "\x00" + advisoryKey(a)
			if seen[key] {
				continue
			}
			seen[key] = true
			alerts = append(alerts, a)
		}
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].Repo != alerts[j].Repo {
			return alerts[i].Repo < alerts[j].Repo
		}
		if alerts[i].AdvisoryID != alerts[j].AdvisoryID {
			return alerts[i].AdvisoryID < alerts[j].AdvisoryID
		}
		return alerts[i].Number < alerts[j].Number
	})

	return alerts, skipped, nil
}

// advisoryKey identifies the advisory. Falls back to the alert number for
// records without a GHSA identifier.
func advisoryKey(a update.Alert) string {
	if a.AdvisoryID != "" {
		return a.AdvisoryID
	}
	return strconv.Itoa(a.Number)
}

// Report formats the alerts into a single plain-text report suitable for a
// notification handoff.
func Report(alerts []update.Alert, owner string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d open vulnerability alerts in %s:\n", len(alerts), owner)
	for _, a := range alerts {
		fmt.Fprintf(&b, "- %s/%s: %s %s: %s\n  %s\n", owner, a.Repo, a.Package, a.Severity, a.Summary, a.URL)
		if a.FixPR != "" {
			fmt.Fprintf(&b, "  Resolved by: %s\n", a.FixPR)
		}
	}
	return b.String()
}
