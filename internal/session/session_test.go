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

package session

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depbatch/depbatch/internal/github"
	"github.com/depbatch/depbatch/internal/grouping"
	"github.com/depbatch/depbatch/internal/logging"
	"github.com/depbatch/depbatch/internal/update"
)

// scriptTerminal feeds a fixed command sequence, then EOF.
type scriptTerminal struct {
	commands []Command
	pos      int
}

func (t *scriptTerminal) ReadCommand(string) (Command, error) {
	if t.pos >= len(t.commands) {
		return 0, io.EOF
	}
	cmd := t.commands[t.pos]
	t.pos++
	return cmd, nil
}

func member(id, repo string, status update.CheckStatus) update.UpdatePR {
	return update.UpdatePR{
		ID:      id,
		Repo:    repo,
		Updates: []update.DependencyUpdate{{Name: "lodash", FromVersion: "1.0.0", ToVersion: "2.0.0"}},
		Checks:  []update.Check{{Name: "build", Status: status}},
		URL:     "https://github.com/acme/" + repo + "/pull/" + id,
	}
}

func makeGroups(members ...[]update.UpdatePR) []grouping.UpdateGroup {
	var all []update.UpdatePR
	for _, ms := range members {
		all = append(all, ms...)
	}
	return grouping.Group(all, grouping.Filters{})
}

func newTestSession(groups []grouping.UpdateGroup, client *github.MockClient, commands ...Command) *Session {
	term := &scriptTerminal{commands: commands}
	return New(groups, client, term, &bytes.Buffer{}, logging.New(io.Discard, false))
}

func TestRunMergePartialChecks(t *testing.T) {
	passing := member("1", "api", update.CheckPassed)
	failing := member("2", "web", update.CheckFailed)
	groups := makeGroups([]update.UpdatePR{passing, failing})

	client := &github.MockClient{}
	sess := newTestSession(groups, client, CommandMerge)

	require.NoError(t, sess.Run(context.Background()))

	// Only the member with all-passing checks gets a merge call.
	require.Equal(t, []string{"1"}, client.MergedIDs)

	outcomes := sess.Outcomes()
	require.Len(t, outcomes, 2)
	assert.Equal(t, OutcomeMerged, outcomes[0].Kind)
	assert.Equal(t, "1", outcomes[0].PRID)
	assert.Equal(t, OutcomeNotAttempted, outcomes[1].Kind)
	assert.Equal(t, "2", outcomes[1].PRID)
}

func TestRunMergeSkipsMembersWithoutChecks(t *testing.T) {
	noCI := member("1", "api", update.CheckPassed)
	noCI.Checks = nil
	groups := makeGroups([]update.UpdatePR{noCI})

	client := &github.MockClient{}
	sess := newTestSession(groups, client, CommandMerge)

	require.NoError(t, sess.Run(context.Background()))
	assert.Empty(t, client.MergedIDs, "a PR without any CI checks must never be merged")

	outcomes := sess.Outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeNotAttempted, outcomes[0].Kind)
}

func TestRunMergeNothingPassing(t *testing.T) {
	groups := makeGroups([]update.UpdatePR{
		member("1", "api", update.CheckFailed),
		member("2", "web", update.CheckPending),
	})

	client := &github.MockClient{}
	sess := newTestSession(groups, client, CommandMerge)

	require.NoError(t, sess.Run(context.Background()))
	assert.Empty(t, client.MergedIDs, "no merge call may be issued when nothing passes")
	for _, o := range sess.Outcomes() {
		assert.Equal(t, OutcomeNotAttempted, o.Kind)
	}
}

func TestRunMergePartialFailure(t *testing.T) {
	a := member("1", "api", update.CheckPassed)
	b := member("2", "web", update.CheckPassed)
	groups := makeGroups([]update.UpdatePR{a, b})

	client := &github.MockClient{
		MergeErrors: map[string]error{"1": assert.AnError},
	}
	sess := newTestSession(groups, client, CommandMerge)

	require.NoError(t, sess.Run(context.Background()))

	// The first merge fails; the second is still attempted.
	require.Equal(t, []string{"2"}, client.MergedIDs)

	outcomes := sess.Outcomes()
	require.Len(t, outcomes, 2)
	assert.Equal(t, OutcomeMergeFailed, outcomes[0].Kind)
	assert.Error(t, outcomes[0].Err)
	assert.Equal(t, OutcomeMerged, outcomes[1].Kind)
}

func TestRunSkip(t *testing.T) {
	groups := makeGroups([]update.UpdatePR{
		member("1", "api", update.CheckPassed),
	})

	client := &github.MockClient{}
	sess := newTestSession(groups, client, CommandSkip)

	require.NoError(t, sess.Run(context.Background()))
	assert.Empty(t, client.MergedIDs)

	outcomes := sess.Outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeSkipped, outcomes[0].Kind)
}

func TestRunQuitLeavesRemainingGroupsUntouched(t *testing.T) {
	var members []update.UpdatePR
	members = append(members, member("1", "api", update.CheckPassed))
	members[0].GroupName = "axios"
	members[0].Updates[0].Name = "axios"

	b := member("2", "web", update.CheckPassed)
	b.Updates[0].Name = "lodash"
	c := member("3", "worker", update.CheckPassed)
	c.Updates[0].Name = "react"
	d := member("4", "cli", update.CheckPassed)
	d.Updates[0].Name = "vite"
	members = append(members, b, c, d)

	groups := makeGroups(members)
	require.Len(t, groups, 4)

	client := &github.MockClient{}
	sess := newTestSession(groups, client, CommandMerge, CommandQuit)

	require.NoError(t, sess.Run(context.Background()))
	assert.Equal(t, StateTerminated, sess.State())

	// First group merged, second quit on, last three have no entries.
	outcomes := sess.Outcomes()
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeMerged, outcomes[0].Kind)
}

func TestRunNotesAndURLsDoNotAdvance(t *testing.T) {
	groups := makeGroups([]update.UpdatePR{
		member("1", "api", update.CheckPassed),
	})

	client := &github.MockClient{}
	var out bytes.Buffer
	term := &scriptTerminal{commands: []Command{CommandNotes, CommandURLs, CommandSkip}}
	sess := New(groups, client, term, &out, logging.New(io.Discard, false))

	require.NoError(t, sess.Run(context.Background()))

	// The skip after notes/urls still applies to the same (only) group.
	require.Len(t, sess.Outcomes(), 1)
	assert.Equal(t, OutcomeSkipped, sess.Outcomes()[0].Kind)
	assert.Contains(t, out.String(), "https://github.com/acme/api/pull/1")
}

func TestRunEOFTerminates(t *testing.T) {
	groups := makeGroups([]update.UpdatePR{
		member("1", "api", update.CheckPassed),
	})

	sess := newTestSession(groups, &github.MockClient{})

	require.NoError(t, sess.Run(context.Background()), "EOF is quit, not an error")
	assert.Equal(t, StateTerminated, sess.State())
	assert.Empty(t, sess.Outcomes())
}

func TestRunEmptyGroups(t *testing.T) {
	sess := newTestSession(nil, &github.MockClient{})
	require.NoError(t, sess.Run(context.Background()))
	assert.Equal(t, StateTerminated, sess.State())
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
		ok    bool
	}{
		{"merge", CommandMerge, true},
		{"m", CommandMerge, true},
		{"SKIP", CommandSkip, true},
		{"s", CommandSkip, true},
		{"q", CommandQuit, true},
		{"n", CommandNotes, true},
		{"u", CommandURLs, true},
		{"  quit  ", CommandQuit, true},
		{"", 0, false},
		{"bogus", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseCommand(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIOTerminalRepromptsOnUnknownInput(t *testing.T) {
	in := strings.NewReader("bogus\nmerge\n")
	var out bytes.Buffer
	term := NewIOTerminal(in, &out)

	cmd, err := term.ReadCommand(Prompt)
	require.NoError(t, err)
	assert.Equal(t, CommandMerge, cmd)
	assert.Equal(t, 2, strings.Count(out.String(), Prompt), "unknown input re-prompts")
}
