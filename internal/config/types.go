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

// Package config types define the configuration structures used throughout
// depbatch. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for depbatch.
// It consolidates settings from various sources and provides a unified
// interface for accessing configuration values throughout the application.
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Slack    SlackConfig    `yaml:"slack"`
}

// GitHubConfig contains GitHub-specific settings including the GraphQL
// endpoint and authentication configuration. This allows easy configuration
// for GitHub Enterprise deployments by specifying a custom endpoint.
type GitHubConfig struct {
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
}

// DefaultsConfig contains default settings that apply to every invocation
// unless overridden by command-line flags. Labels are always sent to the
// search query; additional labels from --label are appended.
type DefaultsConfig struct {
	Labels   []string `yaml:"labels"`
	PageSize int      `yaml:"page_size"`
}

// SlackConfig names the environment variables holding the Slack credentials
// used by the optional alerts report handoff. Only the variable names live
// in configuration; the secrets themselves stay in the environment.
type SlackConfig struct {
	ChannelEnv string `yaml:"channel_env"`
	TokenEnv   string `yaml:"token_env"`
}

// DefaultConfig returns a Config with sensible defaults suitable for most
// use cases. These defaults are optimized for public GitHub.com usage but
// can be overridden for GitHub Enterprise or special requirements.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			Labels:   []string{"dependencies"},
			PageSize: 50,
		},
		Slack: SlackConfig{
			ChannelEnv: "SLACK_CHANNEL",
			TokenEnv:   "SLACK_TOKEN",
		},
	}
}
