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

import "context"

// PRIterator walks pages of Dependabot pull requests. It is finite and
// non-restartable: once Next returns nil the sequence is exhausted and a
// new iterator is needed to read again. The MaxRecords cap is enforced
// here, on the consumer side, by truncating the final page.
type PRIterator struct {
	client Client
	owner  string
	opts   FetchOptions
	total  int
	done   bool
}

// NewPRIterator creates an iterator over the owner's open Dependabot PRs.
func NewPRIterator(client Client, owner string, opts FetchOptions) *PRIterator {
	return &PRIterator{client: client, owner: owner, opts: opts}
}

// Next fetches the next page. It returns (nil, nil) after the last page.
func (it *PRIterator) Next(ctx context.Context) (*PullRequestPage, error) {
	if it.done {
		return nil, nil
	}

	page, err := it.client.FetchDependencyPRs(ctx, it.owner, it.opts)
	if err != nil {
		it.done = true
		return nil, err
	}

	if remaining := MaxRecords - it.total; len(page.PullRequests) > remaining {
		page.PullRequests = page.PullRequests[:remaining]
		page.HasNextPage = false
	}
	it.total += len(page.PullRequests)

	it.opts.After = page.EndCursor
	if !page.HasNextPage || it.total >= MaxRecords {
		it.done = true
	}

	return page, nil
}

// AlertIterator walks pages of vulnerability alerts across the owner's
// repositories. Same sequence semantics as PRIterator, without the record
// cap: repository pagination bounds the result on its own.
type AlertIterator struct {
	client Client
	owner  string
	cursor string
	done   bool
}

// NewAlertIterator creates an iterator over the owner's open alerts.
func NewAlertIterator(client Client, owner string) *AlertIterator {
	return &AlertIterator{client: client, owner: owner}
}

// Next fetches the next page. It returns (nil, nil) after the last page.
func (it *AlertIterator) Next(ctx context.Context) (*AlertPage, error) {
	if it.done {
		return nil, nil
	}

	page, err := it.client.FetchAlerts(ctx, it.owner, it.cursor)
	if err != nil {
		it.done = true
		return nil, err
	}

	it.cursor = page.EndCursor
	if !page.HasNextPage {
		it.done = true
	}

	return page, nil
}
