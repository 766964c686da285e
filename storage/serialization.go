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

package storage

import (
	"fmt"

	"github.com/sjlee-dev/labmatch/core"
)

// MarshalLabProfile serializes a LabProfile to bytes.
func MarshalLabProfile(lab *core.LabProfile) []byte {
	buf := make([]byte, core.LabProfileMUS.Size(*lab))
	core.LabProfileMUS.Marshal(*lab, buf)
	return buf
}

// UnmarshalLabProfile deserializes a LabProfile from bytes.
func UnmarshalLabProfile(data []byte) (*core.LabProfile, error) {
	lab, _, err := core.LabProfileMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &lab, nil
}
