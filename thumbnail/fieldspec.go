// Copyright 2024 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package thumbnail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldSpec specifies one or more document fields a thumbnail
// source can be read from. It is either a single field name
// or an ordered list of candidate names (tried in the order
// of appearance). The zero value means "not configured".
type FieldSpec struct {
	names    []string
	multiple bool
}

// Single creates a spec with exactly one field name.
func Single(name string) FieldSpec {
	if name == "" {
		return FieldSpec{}
	}
	return FieldSpec{names: []string{name}}
}

// Multiple creates a spec with an ordered list of candidate fields.
func Multiple(names ...string) FieldSpec {
	ans := FieldSpec{names: make([]string, len(names)), multiple: true}
	copy(ans.names, names)
	return ans
}

// Present tells whether the spec names at least one field.
func (fs FieldSpec) Present() bool {
	return len(fs.names) > 0
}

func (fs FieldSpec) IsMultiple() bool {
	return fs.multiple
}

// Names returns the normalized, ordered list of field names.
// A single-name spec becomes a one-element slice. The returned
// slice is a copy.
func (fs FieldSpec) Names() []string {
	ans := make([]string, len(fs.names))
	copy(ans, fs.names)
	return ans
}

func (fs FieldSpec) String() string {
	if fs.multiple {
		return fmt.Sprintf("[%s]", strings.Join(fs.names, ", "))
	}
	return strings.Join(fs.names, "")
}

func (fs FieldSpec) MarshalJSON() ([]byte, error) {
	if !fs.Present() && !fs.multiple {
		return []byte("null"), nil
	}
	if fs.multiple {
		return json.Marshal(fs.names)
	}
	return json.Marshal(fs.names[0])
}

// UnmarshalJSON accepts either a string or an array of strings.
func (fs *FieldSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*fs = FieldSpec{}
		return nil
	}
	if data[0] == '[' {
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return fmt.Errorf("failed to decode thumbnail field list: %w", err)
		}
		*fs = Multiple(names...)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("failed to decode thumbnail field: %w", err)
	}
	*fs = Single(name)
	return nil
}
