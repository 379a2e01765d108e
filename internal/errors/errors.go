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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrNoToken indicates no GitHub credential could be resolved from any source.
	// Maps to exit code 2.
	ErrNoToken = errors.New("no github token available")

	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrOwnerNotFound indicates the specified user or organization does not
	// exist or is not accessible. Maps to exit code 2.
	ErrOwnerNotFound = errors.New("owner not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrMergeRejected indicates GitHub refused to merge a pull request, for
	// example because of a merge conflict or a branch protection rule.
	// Recorded per PR and reported; never fatal to a review session.
	ErrMergeRejected = errors.New("merge rejected")

	// ErrUnparseablePR indicates a pull request did not match the Dependabot
	// branch or title conventions. The record is skipped and counted, the
	// run continues.
	ErrUnparseablePR = errors.New("unparseable dependabot pull request")
)
