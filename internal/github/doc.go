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

// Package github provides the GraphQL client for fetching Dependabot pull
// requests and security alerts and for merging pull requests.
//
// The package exposes raw API records; turning them into the canonical
// review model is the job of the update package. All pagination is
// cursor-based and exposed through pull-based iterators that are finite
// and non-restartable: once consumed, a fresh iterator (and fresh remote
// calls) is required to read the data again.
package github
