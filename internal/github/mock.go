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

import (
	"context"
	"fmt"

	deperrors "github.com/depbatch/depbatch/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
// Pages are served in call order; merges are recorded for verification.
type MockClient struct {
	// Pages of pull requests to return, one per FetchDependencyPRs call.
	Pages []*PullRequestPage

	// AlertPages to return, one per FetchAlerts call.
	AlertPages []*AlertPage

	// MergeErrors maps PR IDs to the error MergePullRequest should return.
	MergeErrors map[string]error

	// Error, when set, is returned from every fetch call.
	Error error

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// Track calls for verification
	FetchCalls   int
	AlertCalls   int
	MergedIDs    []string
	MergeMethods []string
	LastOwner    string
	LastOpts     FetchOptions
}

// FetchDependencyPRs implements the Client interface.
func (m *MockClient) FetchDependencyPRs(ctx context.Context, owner string, opts FetchOptions) (*PullRequestPage, error) {
	m.LastOwner = owner
	m.LastOpts = opts

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := m.failure(); err != nil {
		return nil, err
	}

	if m.FetchCalls >= len(m.Pages) {
		return &PullRequestPage{}, nil
	}
	page := m.Pages[m.FetchCalls]
	m.FetchCalls++
	return page, nil
}

// FetchAlerts implements the Client interface.
func (m *MockClient) FetchAlerts(ctx context.Context, owner, cursor string) (*AlertPage, error) {
	m.LastOwner = owner

	if err := m.failure(); err != nil {
		return nil, err
	}

	if m.AlertCalls >= len(m.AlertPages) {
		return &AlertPage{}, nil
	}
	page := m.AlertPages[m.AlertCalls]
	m.AlertCalls++
	return page, nil
}

// MergePullRequest implements the Client interface.
func (m *MockClient) MergePullRequest(ctx context.Context, prID, mergeMethod string) error {
	if err, ok := m.MergeErrors[prID]; ok {
		return err
	}
	m.MergedIDs = append(m.MergedIDs, prID)
	m.MergeMethods = append(m.MergeMethods, mergeMethod)
	return nil
}

func (m *MockClient) failure() error {
	if m.ShouldFailAuth {
		return fmt.Errorf("authentication failed: %w", deperrors.ErrInvalidToken)
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", deperrors.ErrNetworkFailure)
	}
	return m.Error
}
