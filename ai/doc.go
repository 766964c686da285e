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


// Package ai provides the embedding abstraction used by the ranking core.
//
// The package defines the Embedder interface with role-aware framing
// (query vs. passage) for asymmetric retrieval models, a bounded
// concurrent embedding cache, and vector helpers shared by the
// similarity measures.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles, no external dependencies
//
// Public constructors return interface types to keep callers decoupled
// from concrete implementations; mock constructors return concrete
// types so tests can inject behavior and assert call counts.
package ai
