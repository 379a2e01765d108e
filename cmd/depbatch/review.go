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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/depbatch/depbatch/internal/config"
	"github.com/depbatch/depbatch/internal/github"
	"github.com/depbatch/depbatch/internal/grouping"
	"github.com/depbatch/depbatch/internal/logging"
	"github.com/depbatch/depbatch/internal/render"
	"github.com/depbatch/depbatch/internal/session"
	"github.com/depbatch/depbatch/internal/update"
)

type reviewOptions struct {
	labels      []string
	repoFilter  string
	packageType string
	token       string
	configPath  string
	verbose     bool
}

// newReviewCommand builds the interactive review subcommand.
func newReviewCommand() *cobra.Command {
	var opts reviewOptions

	cmd := &cobra.Command{
		Use:   "review <owner>",
		Short: "Interactively review and merge open Dependabot PRs",
		Long: `Review walks the open Dependabot pull requests of a GitHub user or
organization, grouped by dependency or Dependabot update group. For each
group you can merge the members whose checks pass, skip, inspect release
notes, or list the member URLs.

At most 100 pull requests are fetched per invocation; re-run to continue.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.labels, "label", "l", nil, "Additional label to filter PRs (repeatable)")
	cmd.Flags().StringVarP(&opts.repoFilter, "repo-filter", "r", "", "Filter PRs against a repository pattern")
	cmd.Flags().StringVarP(&opts.packageType, "type", "t", "", `Package type (e.g. "npm_and_yarn", "pip")`)
	cmd.Flags().StringVar(&opts.token, "token", "", "GitHub token (overrides the credential chain)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runReview executes the review command
func runReview(ctx context.Context, owner string, opts reviewOptions) error {
	log := logging.New(os.Stderr, opts.verbose)

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	token := opts.token
	if token == "" {
		if token, err = github.ResolveToken(cfg.GitHub.TokenEnv); err != nil {
			return err
		}
	}

	client := github.NewGraphQLClient(token, cfg.GitHub.GraphQLEndpoint)

	labels := append([]string{}, cfg.Defaults.Labels...)
	labels = append(labels, opts.labels...)

	fmt.Printf("Finding Dependabot PRs in %s's repos...\n", owner)

	updates, skipped, err := fetchUpdates(ctx, client, owner, labels, cfg.Defaults.PageSize, log)
	if err != nil {
		return err
	}

	groups := grouping.Group(updates, grouping.Filters{
		Labels:      opts.labels,
		RepoPattern: opts.repoFilter,
		PackageType: opts.packageType,
	})

	total := 0
	for _, g := range groups {
		total += len(g.Members)
	}
	render.FetchSummary(os.Stdout, total, len(groups), skipped)

	term := session.NewIOTerminal(os.Stdin, os.Stdout)
	return session.New(groups, client, term, os.Stdout, log).Run(ctx)
}

// fetchUpdates drains the PR page iterator and normalizes each record.
// Unparseable records are skipped, logged and counted; the run continues.
func fetchUpdates(ctx context.Context, client github.Client, owner string, labels []string, pageSize int, log *slog.Logger) ([]update.UpdatePR, int, error) {
	it := github.NewPRIterator(client, owner, github.FetchOptions{
		Labels:   labels,
		PageSize: pageSize,
	})

	var updates []update.UpdatePR
	skipped := 0
	for {
		page, err := it.Next(ctx)
		if err != nil {
			return nil, 0, err
		}
		if page == nil {
			break
		}

		for _, raw := range page.PullRequests {
			u, err := update.Normalize(raw)
			if err != nil {
				skipped++
				log.Warn("failed to parse PR details", "pr", raw.URL, "error", err)
				continue
			}
			updates = append(updates, u)
		}
	}

	return updates, skipped, nil
}
