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
	"os"

	"github.com/spf13/cobra"

	"github.com/depbatch/depbatch/internal/alerts"
	"github.com/depbatch/depbatch/internal/config"
	"github.com/depbatch/depbatch/internal/github"
	"github.com/depbatch/depbatch/internal/logging"
	"github.com/depbatch/depbatch/internal/render"
	"github.com/depbatch/depbatch/internal/slack"
)

type alertsOptions struct {
	toSlack    bool
	token      string
	configPath string
	verbose    bool
}

// newAlertsCommand builds the alerts subcommand.
func newAlertsCommand() *cobra.Command {
	var opts alertsOptions

	cmd := &cobra.Command{
		Use:   "alerts <owner>",
		Short: "List open security alerts across an owner's repositories",
		Long: `Alerts lists the open Dependabot security alerts for every repository of
a GitHub user or organization, one entry per (repository, advisory).
With --slack, the report is also posted to the configured Slack channel.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlerts(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.toSlack, "slack", false, "Post the report to Slack")
	cmd.Flags().StringVar(&opts.token, "token", "", "GitHub token (overrides the credential chain)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runAlerts executes the alerts command
func runAlerts(ctx context.Context, owner string, opts alertsOptions) error {
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

	list, skipped, err := alerts.List(ctx, client, owner, log)
	if err != nil {
		return err
	}
	if skipped > 0 {
		log.Warn("skipped malformed alerts", "count", skipped)
	}

	render.Alerts(os.Stdout, list, owner)

	if opts.toSlack {
		channel := os.Getenv(cfg.Slack.ChannelEnv)
		slackToken := os.Getenv(cfg.Slack.TokenEnv)
		if channel == "" || slackToken == "" {
			return fmt.Errorf("slack handoff requires %s and %s to be set", cfg.Slack.ChannelEnv, cfg.Slack.TokenEnv)
		}

		var notifier alerts.Notifier = slack.NewClient(slackToken)
		if err := notifier.Post(ctx, channel, alerts.Report(list, owner)); err != nil {
			return err
		}
		log.Info("report posted to slack", "channel", channel)
	}

	return nil
}
