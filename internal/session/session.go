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

// Package session drives the interactive review loop as an explicit state
// machine: Idle -> Presenting(group) -> ... -> Terminated. Commands are the
// input symbols, which makes the loop testable with a scripted terminal
// instead of a real one.
//
// The session exclusively owns its cursor and outcome log. State lives only
// for the process lifetime; a re-run starts over from a fresh fetch.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/depbatch/depbatch/internal/grouping"
	"github.com/depbatch/depbatch/internal/render"
)

// State of the review session.
type State int

const (
	StateIdle State = iota
	StatePresenting
	StateTerminated
)

// OutcomeKind classifies what happened to one member PR.
type OutcomeKind int

const (
	// OutcomeMerged: the merge mutation succeeded.
	OutcomeMerged OutcomeKind = iota
	// OutcomeMergeFailed: the merge was attempted and refused.
	OutcomeMergeFailed
	// OutcomeSkipped: the operator skipped the group.
	OutcomeSkipped
	// OutcomeNotAttempted: merge was requested but the PR's checks were
	// not all passing, so no mutation was issued.
	OutcomeNotAttempted
)

// Outcome is one entry of the per-PR outcome log. Entries appear in the
// deterministic member order of their group.
type Outcome struct {
	Group string
	PRID  string
	URL   string
	Kind  OutcomeKind
	Err   error
}

// Merger is the single mutation capability the session needs from the
// remote client.
type Merger interface {
	MergePullRequest(ctx context.Context, prID, mergeMethod string) error
}

// Session holds the transient review state: the ordered groups, the cursor,
// and the outcome log. Create one per invocation with New; it is not
// reusable after Run returns.
type Session struct {
	groups []grouping.UpdateGroup
	merger Merger
	term   Terminal
	out    io.Writer
	log    *slog.Logger

	state    State
	cursor   int
	outcomes []Outcome
}

// New creates an idle session over the given ordered groups.
func New(groups []grouping.UpdateGroup, merger Merger, term Terminal, out io.Writer, log *slog.Logger) *Session {
	return &Session{
		groups: groups,
		merger: merger,
		term:   term,
		out:    out,
		log:    log,
		state:  StateIdle,
	}
}

// State returns the session's current state.
func (s *Session) State() State { return s.state }

// Outcomes returns the outcome log so far, in recording order.
func (s *Session) Outcomes() []Outcome { return s.outcomes }

// Run drives the loop until every group is processed or the operator
// quits. Quitting is not an error: remaining groups simply get no outcome
// entries. Only terminal read errors other than EOF are returned; EOF is
// treated as quit.
func (s *Session) Run(ctx context.Context) error {
	if len(s.groups) == 0 {
		s.state = StateTerminated
		return nil
	}
	s.state = StatePresenting

	for s.state == StatePresenting {
		group := s.groups[s.cursor]
		render.GroupHeader(s.out, group)
		render.GroupSummary(s.out, group)

		if err := s.presentGroup(ctx, group); err != nil {
			return err
		}
		if s.state == StateTerminated {
			break
		}

		s.cursor++
		fmt.Fprintln(s.out)
		if s.cursor >= len(s.groups) {
			s.state = StateTerminated
		}
	}

	merged, mergeFailed, skipped, notAttempted := s.counts()
	render.RunSummary(s.out, merged, mergeFailed, skipped, notAttempted)
	return nil
}

// presentGroup blocks on the terminal until a command advances past the
// group or terminates the session. Notes and URL listings return to the
// same presenting state without advancing the cursor.
func (s *Session) presentGroup(ctx context.Context, group grouping.UpdateGroup) error {
	for {
		cmd, err := s.term.ReadCommand(Prompt)
		if err != nil {
			s.state = StateTerminated
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading command: %w", err)
		}

		switch cmd {
		case CommandMerge:
			s.mergeGroup(ctx, group)
			return nil
		case CommandSkip:
			for _, m := range group.Members {
				s.record(Outcome{Group: group.Key, PRID: m.ID, URL: m.URL, Kind: OutcomeSkipped})
			}
			return nil
		case CommandQuit:
			s.state = StateTerminated
			return nil
		case CommandNotes:
			render.Notes(s.out, group)
		case CommandURLs:
			render.URLList(s.out, group)
		}
	}
}

// mergeGroup attempts the merge mutation for every member whose checks are
// all passing, in member order. Each attempt's outcome is recorded
// independently; one refusal never blocks the others, and the group always
// advances afterwards. Members with failed, pending or missing checks are
// recorded as not attempted.
func (s *Session) mergeGroup(ctx context.Context, group grouping.UpdateGroup) {
	for _, m := range group.Members {
		if !m.CheckAggregate().AllPassed() {
			s.record(Outcome{Group: group.Key, PRID: m.ID, URL: m.URL, Kind: OutcomeNotAttempted})
			continue
		}

		render.MergeAttempt(s.out, m.URL)
		err := s.merger.MergePullRequest(ctx, m.ID, m.MergeMethod)
		if err != nil {
			render.MergeFailure(s.out, m.URL, err)
			s.log.Warn("merge failed", "repo", m.Repo, "pr", m.URL, "error", err)
			s.record(Outcome{Group: group.Key, PRID: m.ID, URL: m.URL, Kind: OutcomeMergeFailed, Err: err})
			continue
		}

		s.log.Info("merged", "repo", m.Repo, "pr", m.URL)
		s.record(Outcome{Group: group.Key, PRID: m.ID, URL: m.URL, Kind: OutcomeMerged})
	}
}

func (s *Session) record(o Outcome) {
	s.outcomes = append(s.outcomes, o)
}

func (s *Session) counts() (merged, mergeFailed, skipped, notAttempted int) {
	for _, o := range s.outcomes {
		switch o.Kind {
		case OutcomeMerged:
			merged++
		case OutcomeMergeFailed:
			mergeFailed++
		case OutcomeSkipped:
			skipped++
		case OutcomeNotAttempted:
			notAttempted++
		}
	}
	return
}
