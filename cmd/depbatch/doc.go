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

// Command depbatch reviews Dependabot pull requests and security alerts in
// bulk.
//
// Usage:
//
//	depbatch review <owner> [--label X] [--repo-filter pattern] [--type npm_and_yarn]
//	depbatch alerts <owner> [--slack]
//
// Authentication resolves in order: the GITHUB_TOKEN environment variable
// (name configurable), the gh CLI's stored credential, an interactive
// prompt.
//
// Exit codes: 0 on completion or quit, 2 on authentication or rate-limit
// errors, 3 on network errors, 1 otherwise.
package main
