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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deperrors "github.com/depbatch/depbatch/internal/errors"
)

// graphqlRequest is the wire shape the client posts to the endpoint.
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

func decodeRequest(t *testing.T, r *http.Request) graphqlRequest {
	t.Helper()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("reading request body: %v", err)
	}
	var req graphqlRequest
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("decoding request body: %v", err)
	}
	return req
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name   string
		owner  string
		labels []string
		want   string
	}{
		{
			name:  "no labels",
			owner: "acme",
			want:  "org:acme is:pr is:open author:app/dependabot",
		},
		{
			name:   "one label",
			owner:  "acme",
			labels: []string{"dependencies"},
			want:   "org:acme label:dependencies is:pr is:open author:app/dependabot",
		},
		{
			name:   "multiple labels",
			owner:  "acme",
			labels: []string{"dependencies", "security"},
			want:   "org:acme label:dependencies label:security is:pr is:open author:app/dependabot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSearchQuery(tt.owner, tt.labels)
			if got != tt.want {
				t.Errorf("buildSearchQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchDependencyPRs(t *testing.T) {
	var captured graphqlRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = decodeRequest(t, r)

		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization header = %q, want bearer token", got)
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"data": {
				"search": {
					"issueCount": 1,
					"pageInfo": {"hasNextPage": true, "endCursor": "cursor123"},
					"nodes": [
						{
							"id": "PR_abc",
							"title": "Bump lodash from 4.17.20 to 4.17.21",
							"body": "Bumps lodash.",
							"url": "https://github.com/acme/web/pull/1",
							"headRefName": "dependabot/npm_and_yarn/lodash-4.17.21",
							"baseRefName": "main",
							"reviewDecision": "APPROVED",
							"mergeable": "MERGEABLE",
							"repository": {"name": "web", "viewerDefaultMergeMethod": "SQUASH"},
							"labels": {"nodes": [{"name": "dependencies"}]},
							"commits": {
								"nodes": [
									{
										"commit": {
											"statusCheckRollup": {
												"state": "FAILURE",
												"contexts": {
													"nodes": [
														{"name": "build", "status": "COMPLETED", "conclusion": "SUCCESS"},
														{"context": "ci/legacy", "state": "FAILURE"}
													]
												}
											}
										}
									}
								]
							}
						}
					]
				}
			}
		}`)
	}))
	defer server.Close()

	client := NewGraphQLClient("test-token", server.URL)
	page, err := client.FetchDependencyPRs(context.Background(), "acme", FetchOptions{
		Labels:   []string{"dependencies"},
		PageSize: 25,
	})
	if err != nil {
		t.Fatalf("FetchDependencyPRs() error = %v", err)
	}

	if vars := captured.Variables; vars != nil {
		if q, _ := vars["query"].(string); !strings.Contains(q, "label:dependencies") {
			t.Errorf("search query %q missing label filter", q)
		}
		if first, _ := vars["first"].(float64); first != 25 {
			t.Errorf("first = %v, want 25", vars["first"])
		}
		if vars["after"] != nil {
			t.Errorf("after = %v, want null on the first page", vars["after"])
		}
	}

	if page.IssueCount != 1 {
		t.Errorf("IssueCount = %d, want 1", page.IssueCount)
	}
	if !page.HasNextPage || page.EndCursor != "cursor123" {
		t.Errorf("pagination = (%v, %q), want (true, cursor123)", page.HasNextPage, page.EndCursor)
	}
	if len(page.PullRequests) != 1 {
		t.Fatalf("got %d PRs, want 1", len(page.PullRequests))
	}

	pr := page.PullRequests[0]
	if pr.ID != "PR_abc" || pr.Repo != "web" || pr.MergeMethod != "SQUASH" {
		t.Errorf("unexpected PR identity: %+v", pr)
	}
	if !pr.Mergeable {
		t.Error("Mergeable = false, want true for MERGEABLE state")
	}
	if pr.RollupState != "FAILURE" {
		t.Errorf("RollupState = %q, want FAILURE", pr.RollupState)
	}
	if len(pr.Labels) != 1 || pr.Labels[0] != "dependencies" {
		t.Errorf("Labels = %v, want [dependencies]", pr.Labels)
	}
	if len(pr.Checks) != 2 {
		t.Fatalf("got %d checks, want 2", len(pr.Checks))
	}
	if pr.Checks[0].Name != "build" || pr.Checks[0].Conclusion != "SUCCESS" {
		t.Errorf("check run = %+v", pr.Checks[0])
	}
	if pr.Checks[1].Name != "ci/legacy" || pr.Checks[1].State != "FAILURE" {
		t.Errorf("status context = %+v", pr.Checks[1])
	}
}

func TestFetchDependencyPRsCursor(t *testing.T) {
	var captured graphqlRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = decodeRequest(t, r)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data": {"search": {"issueCount": 0, "pageInfo": {"hasNextPage": false, "endCursor": ""}, "nodes": []}}}`)
	}))
	defer server.Close()

	client := NewGraphQLClient("test-token", server.URL)
	_, err := client.FetchDependencyPRs(context.Background(), "acme", FetchOptions{After: "cursor123"})
	if err != nil {
		t.Fatalf("FetchDependencyPRs() error = %v", err)
	}

	if got, _ := captured.Variables["after"].(string); got != "cursor123" {
		t.Errorf("after = %v, want cursor123", captured.Variables["after"])
	}
}

func TestFetchDependencyPRsErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "rate limit",
			status:  http.StatusOK,
			body:    `{"errors": [{"message": "API rate limit exceeded for user"}]}`,
			wantErr: deperrors.ErrRateLimit,
		},
		{
			name:    "bad credentials",
			status:  http.StatusUnauthorized,
			body:    `{"message": "Bad credentials"}`,
			wantErr: deperrors.ErrInvalidToken,
		},
		{
			name:    "owner not found",
			status:  http.StatusOK,
			body:    `{"errors": [{"message": "Could not resolve to an Organization with the login of 'acme'."}]}`,
			wantErr: deperrors.ErrOwnerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			client := NewGraphQLClient("test-token", server.URL)
			_, err := client.FetchDependencyPRs(context.Background(), "acme", FetchOptions{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FetchDependencyPRs() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetchAlerts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"data": {
				"organization": {
					"repositories": {
						"pageInfo": {"hasNextPage": false, "endCursor": ""},
						"nodes": [
							{
								"name": "web",
								"isArchived": false,
								"vulnerabilityAlerts": {
									"nodes": [
										{
											"number": 7,
											"createdAt": "2026-05-01T12:00:00Z",
											"dependabotUpdate": {"pullRequest": {"url": "https://github.com/acme/web/pull/9"}},
											"securityAdvisory": {"ghsaId": "GHSA-aaaa", "summary": "Prototype pollution"},
											"securityVulnerability": {
												"package": {"name": "lodash", "ecosystem": "NPM"},
												"severity": "HIGH",
												"vulnerableVersionRange": "< 4.17.21"
											}
										}
									]
								}
							},
							{
								"name": "attic",
								"isArchived": true,
								"vulnerabilityAlerts": {
									"nodes": [
										{
											"number": 1,
											"createdAt": "2026-05-01T12:00:00Z",
											"dependabotUpdate": null,
											"securityAdvisory": {"ghsaId": "GHSA-bbbb", "summary": "Old"},
											"securityVulnerability": {
												"package": {"name": "old", "ecosystem": "NPM"},
												"severity": "LOW",
												"vulnerableVersionRange": "< 1.0.0"
											}
										}
									]
								}
							}
						]
					}
				}
			}
		}`)
	}))
	defer server.Close()

	client := NewGraphQLClient("test-token", server.URL)
	page, err := client.FetchAlerts(context.Background(), "acme", "")
	if err != nil {
		t.Fatalf("FetchAlerts() error = %v", err)
	}

	if len(page.Alerts) != 1 {
		t.Fatalf("got %d alerts, want 1 (archived repo skipped)", len(page.Alerts))
	}

	alert := page.Alerts[0]
	if alert.Repo != "web" || alert.Number != 7 || alert.GHSAID != "GHSA-aaaa" {
		t.Errorf("unexpected alert identity: %+v", alert)
	}
	if alert.Package != "lodash" || alert.Severity != "HIGH" {
		t.Errorf("unexpected vulnerability fields: %+v", alert)
	}
	if alert.FixPRURL != "https://github.com/acme/web/pull/9" {
		t.Errorf("FixPRURL = %q", alert.FixPRURL)
	}
}

func TestMergePullRequest(t *testing.T) {
	var captured graphqlRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = decodeRequest(t, r)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data": {"mergePullRequest": {"pullRequest": {"merged": true}}}}`)
	}))
	defer server.Close()

	client := NewGraphQLClient("test-token", server.URL)
	if err := client.MergePullRequest(context.Background(), "PR_abc", "SQUASH"); err != nil {
		t.Fatalf("MergePullRequest() error = %v", err)
	}

	if !strings.Contains(captured.Query, "mergePullRequest") {
		t.Errorf("mutation %q missing mergePullRequest", captured.Query)
	}
	input, _ := captured.Variables["input"].(map[string]interface{})
	if input["pullRequestId"] != "PR_abc" {
		t.Errorf("pullRequestId = %v, want PR_abc", input["pullRequestId"])
	}
	if input["mergeMethod"] != "SQUASH" {
		t.Errorf("mergeMethod = %v, want SQUASH", input["mergeMethod"])
	}
}

func TestMergePullRequestRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"errors": [{"message": "Pull request Pull Request is not mergeable"}]}`)
	}))
	defer server.Close()

	client := NewGraphQLClient("test-token", server.URL)
	err := client.MergePullRequest(context.Background(), "PR_abc", "")
	if !errors.Is(err, deperrors.ErrMergeRejected) {
		t.Errorf("MergePullRequest() error = %v, want ErrMergeRejected", err)
	}
}
