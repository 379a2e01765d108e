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

// Package grouping partitions normalized updates into ordered review groups.
//
// Ordering is a correctness contract: the review session's progress is only
// meaningful if grouping the same input twice yields the same group order
// and the same member order. Groups sort case-insensitively by key; members
// sort by repository name, then PR ID. Keys compare case-insensitively but
// keep their first-seen casing for display.
package grouping

import (
	"sort"
	"strings"

	"github.com/depbatch/depbatch/internal/update"
)

// Filters restrict which updates take part in grouping. An update failing
// any active filter is excluded entirely, not merely hidden. Zero values
// deactivate a filter.
type Filters struct {
	// Labels must all be present on the update (case-insensitive).
	Labels []string

	// RepoPattern is matched as a substring of the repository name.
	RepoPattern string

	// PackageType must equal the update's package type exactly.
	PackageType string
}

// Match reports whether the update passes every active filter.
func (f Filters) Match(u update.UpdatePR) bool {
	for _, want := range f.Labels {
		if !hasLabel(u.Labels, want) {
			return false
		}
	}
	if f.RepoPattern != "" && !strings.Contains(u.Repo, f.RepoPattern) {
		return false
	}
	if f.PackageType != "" && u.PackageType != f.PackageType {
		return false
	}
	return true
}

func hasLabel(labels []string, want string) bool {
	for _, l := range labels {
		if strings.EqualFold(l, want) {
			return true
		}
	}
	return false
}

// Tally counts a group's member PRs by their derived check state.
type Tally struct {
	Passed  int
	Failed  int
	Pending int
}

// UpdateGroup is an ordered set of updates reviewed together under one key.
type UpdateGroup struct {
	// Key is the Dependabot group label, or the dependency name for
	// ungrouped updates. Display casing is the first seen.
	Key string

	// Members in (repository, PR ID) order.
	Members []update.UpdatePR

	// Tally of members by check state.
	Tally Tally
}

// IsGroup reports whether this is a named Dependabot group rather than a
// single dependency reviewed across repositories.
func (g UpdateGroup) IsGroup() bool {
	return len(g.Members) > 0 && g.Members[0].IsGroup
}

// Bumps returns the distinct (name, from, to) version bumps across the
// group's members, in deterministic order.
func (g UpdateGroup) Bumps() []update.DependencyUpdate {
	seen := make(map[[3]string]bool)
	var bumps []update.DependencyUpdate
	for _, m := range g.Members {
		for _, u := range m.Updates {
			key := [3]string{u.Name, u.FromVersion, u.ToVersion}
			if seen[key] {
				continue
			}
			seen[key] = true
			bumps = append(bumps, update.DependencyUpdate{
				Name:        u.Name,
				FromVersion: u.FromVersion,
				ToVersion:   u.ToVersion,
			})
		}
	}
	sort.Slice(bumps, func(i, j int) bool {
		if bumps[i].Name != bumps[j].Name {
			return bumps[i].Name < bumps[j].Name
		}
		return bumps[i].FromVersion < bumps[j].FromVersion
	})
	return bumps
}

// Group partitions updates into ordered groups. Filtering happens before
// grouping. An update carrying a group label is keyed by the label, never
// by its dependency name; ungrouped updates key by primary dependency name.
func Group(updates []update.UpdatePR, f Filters) []UpdateGroup {
	byKey := make(map[string]*UpdateGroup)

	for _, u := range updates {
		if !f.Match(u) {
			continue
		}
		key := u.GroupKey()
		lower := strings.ToLower(key)
		g, ok := byKey[lower]
		if !ok {
			g = &UpdateGroup{Key: key}
			byKey[lower] = g
		}
		g.Members = append(g.Members, u)
	}

	groups := make([]UpdateGroup, 0, len(byKey))
	for _, g := range byKey {
		sort.Slice(g.Members, func(i, j int) bool {
			if g.Members[i].Repo != g.Members[j].Repo {
				return g.Members[i].Repo < g.Members[j].Repo
			}
			return g.Members[i].ID < g.Members[j].ID
		})
		g.Tally = tallyOf(g.Members)
		groups = append(groups, *g)
	}

	// Lowercased keys are unique by construction of the accumulator map,
	// so no tie-break is needed.
	sort.Slice(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Key) < strings.ToLower(groups[j].Key)
	})

	return groups
}

// tallyOf classifies each member by its derived check state. Members whose
// head commit reported no checks at all count as pending: they are never
// merge-eligible and need the operator's attention.
func tallyOf(members []update.UpdatePR) Tally {
	var t Tally
	for _, m := range members {
		agg := m.CheckAggregate()
		switch {
		case agg.Failed > 0:
			t.Failed++
		case agg.AllPassed():
			t.Passed++
		default:
			t.Pending++
		}
	}
	return t
}
