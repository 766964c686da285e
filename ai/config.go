// Copyright 2025 Labmatch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for embedding providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "multilingual-e5-large", "text-embedding-3-small"
	EmbeddingModel string

	// EmbeddingVersion distinguishes cache entries when the same model
	// name is redeployed with different weights. Default: 1
	EmbeddingVersion int

	// QueryPrefix and PassagePrefix are prepended to the input text
	// according to the embedding role. E5-family models expect
	// "query: " and "passage: "; set both to "" for symmetric models.
	QueryPrefix   string
	PassagePrefix string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the embedding service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithEmbeddingVersion sets the embedding model version.
func WithEmbeddingVersion(version int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingVersion = version
	}
}

// WithRolePrefixes sets the query and passage framing prefixes.
func WithRolePrefixes(query, passage string) ConfigOption {
	return func(c *Config) {
		c.QueryPrefix = query
		c.PassagePrefix = passage
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible service running an E5-family model.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:    "http://localhost:11434/v1",
		EmbeddingModel:   "multilingual-e5-large",
		EmbeddingVersion: 1,
		QueryPrefix:      "query: ",
		PassagePrefix:    "passage: ",
	}
}

// NewConfig creates a Config with default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Frame applies the role prefix to text.
func (c *Config) Frame(text string, role Role) string {
	switch role {
	case RoleQuery:
		return c.QueryPrefix + text
	case RolePassage:
		return c.PassagePrefix + text
	}
	return text
}

// Normalize ensures the configuration is in a canonical form. Most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM) require the /v1 suffix.
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	if c.EmbeddingVersion == 0 {
		c.EmbeddingVersion = 1
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validating.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.EmbeddingVersion < 1 {
		return errors.New("ai config: EmbeddingVersion must be >= 1")
	}
	return nil
}
