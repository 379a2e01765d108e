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
	"net/http"
	"strings"
	"time"

	"github.com/shurcooL/graphql"

	deperrors "github.com/depbatch/depbatch/internal/errors"
	"github.com/depbatch/depbatch/internal/giterror"
)

// GraphQLClient implements the Client interface using GitHub's GraphQL API.
type GraphQLClient struct {
	client    *graphql.Client
	token     string
	inspector giterror.Inspector
}

// NewGraphQLClient creates a new GitHub GraphQL client with the provided
// token and endpoint. The client is configured with:
//   - Authentication via the provided token
//   - Custom GraphQL endpoint URL (e.g., for GitHub Enterprise)
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
func NewGraphQLClient(token, endpoint string) *GraphQLClient {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &authTransport{
			token: token,
			base:  transport,
		},
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		token:     token,
		inspector: giterror.NewInspector(),
	}
}

// buildSearchQuery constructs the GitHub search query for open Dependabot
// pull requests across an owner's repositories. Labels are filtered
// server-side through the search syntax.
func buildSearchQuery(owner string, labels []string) string {
	parts := []string{fmt.Sprintf("org:%s", owner)}
	for _, label := range labels {
		parts = append(parts, "label:"+label)
	}
	parts = append(parts, "is:pr", "is:open", "author:app/dependabot")
	return strings.Join(parts, " ")
}

// FetchDependencyPRs fetches one page of open Dependabot pull requests via
// the search API. It supports cursor-based pagination via opts.After and
// configurable page sizes through opts.PageSize.
func (c *GraphQLClient) FetchDependencyPRs(ctx context.Context, owner string, opts FetchOptions) (*PullRequestPage, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > MaxRecords {
		pageSize = MaxRecords
	}

	var query struct {
		Search struct {
			IssueCount graphql.Int
			PageInfo   struct {
				HasNextPage graphql.Boolean
				EndCursor   graphql.String
			}
			Nodes []struct {
				PullRequest struct {
					ID             graphql.String
					Title          graphql.String
					Body           graphql.String
					URL            graphql.String
					HeadRefName    graphql.String
					BaseRefName    graphql.String
					ReviewDecision graphql.String
					Mergeable      graphql.String
					Repository     struct {
						Name                     graphql.String
						ViewerDefaultMergeMethod graphql.String
					} `graphql:"repository"`
					Labels struct {
						Nodes []struct {
							Name graphql.String
						}
					} `graphql:"labels(first: 20)"`
					Commits struct {
						Nodes []struct {
							Commit struct {
								StatusCheckRollup *struct {
									State    graphql.String
									Contexts struct {
										Nodes []struct {
											CheckRun struct {
												Name       graphql.String
												Status     graphql.String
												Conclusion graphql.String
											} `graphql:"... on CheckRun"`
											StatusContext struct {
												Context graphql.String
												State   graphql.String
											} `graphql:"... on StatusContext"`
										}
									} `graphql:"contexts(first: 100)"`
								} `graphql:"statusCheckRollup"`
							} `graphql:"commit"`
						}
					} `graphql:"commits(last: 1)"`
				} `graphql:"... on PullRequest"`
			}
		} `graphql:"search(query: $query, type: ISSUE, first: $first, after: $after)"`
	}

	variables := map[string]interface{}{
		"query": graphql.String(buildSearchQuery(owner, opts.Labels)),
		"first": graphql.Int(int32(pageSize)), // #nosec G115 - pageSize is capped at 100
		"after": cursorVar(opts.After),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, owner)
	}

	page := &PullRequestPage{
		IssueCount:   int(query.Search.IssueCount),
		HasNextPage:  bool(query.Search.PageInfo.HasNextPage),
		EndCursor:    string(query.Search.PageInfo.EndCursor),
		PullRequests: make([]SearchPR, 0, len(query.Search.Nodes)),
	}

	for _, node := range query.Search.Nodes {
		pr := node.PullRequest
		raw := SearchPR{
			ID:             string(pr.ID),
			Title:          string(pr.Title),
			Body:           string(pr.Body),
			URL:            string(pr.URL),
			HeadRefName:    string(pr.HeadRefName),
			BaseRefName:    string(pr.BaseRefName),
			Repo:           string(pr.Repository.Name),
			MergeMethod:    string(pr.Repository.ViewerDefaultMergeMethod),
			ReviewDecision: string(pr.ReviewDecision),
			Mergeable:      pr.Mergeable == "MERGEABLE",
		}

		for _, label := range pr.Labels.Nodes {
			raw.Labels = append(raw.Labels, string(label.Name))
		}

		if len(pr.Commits.Nodes) > 0 {
			rollup := pr.Commits.Nodes[0].Commit.StatusCheckRollup
			if rollup != nil {
				raw.RollupState = string(rollup.State)
				for _, node := range rollup.Contexts.Nodes {
					check := RawCheck{
						Name:       string(node.CheckRun.Name),
						Status:     string(node.CheckRun.Status),
						Conclusion: string(node.CheckRun.Conclusion),
						State:      string(node.StatusContext.State),
					}
					if check.Name == "" {
						check.Name = string(node.StatusContext.Context)
					}
					raw.Checks = append(raw.Checks, check)
				}
			}
		}

		page.PullRequests = append(page.PullRequests, raw)
	}

	return page, nil
}

// FetchAlerts fetches open vulnerability alerts for one page of the owner's
// repositories. Archived repositories are skipped.
func (c *GraphQLClient) FetchAlerts(ctx context.Context, owner, cursor string) (*AlertPage, error) {
	var query struct {
		Organization struct {
			Repositories struct {
				PageInfo struct {
					HasNextPage graphql.Boolean
					EndCursor   graphql.String
				}
				Nodes []struct {
					Name                graphql.String
					IsArchived          graphql.Boolean
					VulnerabilityAlerts struct {
						Nodes []struct {
							Number           graphql.Int
							CreatedAt        time.Time
							DependabotUpdate *struct {
								PullRequest *struct {
									URL graphql.String
								} `graphql:"pullRequest"`
							} `graphql:"dependabotUpdate"`
							SecurityAdvisory struct {
								GHSAID  graphql.String `graphql:"ghsaId"`
								Summary graphql.String
							} `graphql:"securityAdvisory"`
							SecurityVulnerability struct {
								Package struct {
									Name      graphql.String
									Ecosystem graphql.String
								} `graphql:"package"`
								Severity               graphql.String
								VulnerableVersionRange graphql.String
							} `graphql:"securityVulnerability"`
						}
					} `graphql:"vulnerabilityAlerts(first: 100, states: OPEN)"`
				}
			} `graphql:"repositories(first: 100, after: $after)"`
		} `graphql:"organization(login: $login)"`
	}

	variables := map[string]interface{}{
		"login": graphql.String(owner),
		"after": cursorVar(cursor),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, owner)
	}

	page := &AlertPage{
		HasNextPage: bool(query.Organization.Repositories.PageInfo.HasNextPage),
		EndCursor:   string(query.Organization.Repositories.PageInfo.EndCursor),
	}

	for _, repo := range query.Organization.Repositories.Nodes {
		if bool(repo.IsArchived) {
			continue
		}
		for _, alert := range repo.VulnerabilityAlerts.Nodes {
			raw := RawAlert{
				Repo:         string(repo.Name),
				Number:       int(alert.Number),
				GHSAID:       string(alert.SecurityAdvisory.GHSAID),
				Summary:      string(alert.SecurityAdvisory.Summary),
				Package:      string(alert.SecurityVulnerability.Package.Name),
				Ecosystem:    string(alert.SecurityVulnerability.Package.Ecosystem),
				Severity:     string(alert.SecurityVulnerability.Severity),
				VersionRange: string(alert.SecurityVulnerability.VulnerableVersionRange),
				CreatedAt:    alert.CreatedAt,
			}
			if alert.DependabotUpdate != nil && alert.DependabotUpdate.PullRequest != nil {
				raw.FixPRURL = string(alert.DependabotUpdate.PullRequest.URL)
			}
			page.Alerts = append(page.Alerts, raw)
		}
	}

	return page, nil
}

// MergePullRequestInput is the input object for the mergePullRequest
// mutation. The type name is significant: the GraphQL library derives the
// variable's GraphQL type from it.
type MergePullRequestInput struct {
	PullRequestID string `json:"pullRequestId"`
	MergeMethod   string `json:"mergeMethod,omitempty"`
}

// MergePullRequest merges a single pull request by node ID.
func (c *GraphQLClient) MergePullRequest(ctx context.Context, prID, mergeMethod string) error {
	var mutation struct {
		MergePullRequest struct {
			PullRequest struct {
				Merged graphql.Boolean
			} `graphql:"pullRequest"`
		} `graphql:"mergePullRequest(input: $input)"`
	}

	variables := map[string]interface{}{
		"input": MergePullRequestInput{
			PullRequestID: prID,
			MergeMethod:   mergeMethod,
		},
	}

	if err := c.client.Mutate(ctx, &mutation, variables); err != nil {
		return c.mapMergeError(err, prID)
	}

	return nil
}

// cursorVar converts an optional pagination cursor to a GraphQL variable.
// A nil *String declares the variable while passing null, which GitHub
// treats as "from the beginning".
func cursorVar(cursor string) interface{} {
	if cursor == "" {
		return (*graphql.String)(nil)
	}
	return graphql.NewString(graphql.String(cursor))
}

// mapError maps GraphQL errors to our domain errors with actionable messages.
// Rate limits are checked first, as GitHub reports them with a 403 status.
func (c *GraphQLClient) mapError(err error, owner string) error {
	if err == nil {
		return nil
	}

	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded. Wait for the limit to reset, then re-run: %w", deperrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed. Check your token's scopes and expiry: %w", deperrors.ErrInvalidToken)
	}

	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("owner %q not found or not accessible with this token: %w", owner, deperrors.ErrOwnerNotFound)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to the GitHub API. Check your connection and re-run: %w", deperrors.ErrNetworkFailure)
	}

	return fmt.Errorf("github query failed: %w", err)
}

// mapMergeError classifies merge mutation failures. Merge refusals are a
// distinct, locally recoverable error class; everything else goes through
// the usual mapping.
func (c *GraphQLClient) mapMergeError(err error, prID string) error {
	if err == nil {
		return nil
	}

	if c.inspector.IsMergeBlockedError(err) {
		return fmt.Errorf("github refused to merge %s: %v: %w", prID, err, deperrors.ErrMergeRejected)
	}

	return c.mapError(err, prID)
}
