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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidLabProfile indicates a LabProfile failed validation.
	ErrInvalidLabProfile = errors.New("invalid lab profile")

	// ErrEmptyLabName indicates the lab Name field is empty.
	ErrEmptyLabName = errors.New("lab name cannot be empty")

	// ErrScoreOutOfRange indicates a criterion score outside [0,1].
	ErrScoreOutOfRange = errors.New("score must be between 0.0 and 1.0")
)
