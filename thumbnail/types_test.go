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
	"encoding/json"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlank(t *testing.T) {
	var nilStr *string
	empty := " "
	full := "a.jpg"
	assert.True(t, IsBlank(nil))
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \n\t"))
	assert.True(t, IsBlank(nilStr))
	assert.True(t, IsBlank(&empty))
	assert.True(t, IsBlank(template.HTML(" ")))
	assert.False(t, IsBlank(&full))
	assert.False(t, IsBlank("a.jpg"))
	assert.False(t, IsBlank(0))
	assert.False(t, IsBlank([]string{}))
}

func TestOptionsSuppressLink(t *testing.T) {
	var nilOpts Options
	assert.False(t, nilOpts.SuppressLink())
	assert.False(t, Options{}.SuppressLink())
	assert.False(t, Options{OptSuppressLink: nil}.SuppressLink())
	assert.False(t, Options{OptSuppressLink: false}.SuppressLink())
	assert.False(t, Options{OptSuppressLink: "0"}.SuppressLink())
	assert.False(t, Options{OptSuppressLink: ""}.SuppressLink())
	assert.True(t, Options{OptSuppressLink: true}.SuppressLink())
	assert.True(t, Options{OptSuppressLink: "TRUE"}.SuppressLink())
	assert.True(t, Options{OptSuppressLink: "1"}.SuppressLink())
	assert.True(t, Options{OptSuppressLink: 1}.SuppressLink())
}

func TestFieldSpecNormalization(t *testing.T) {
	assert.Equal(t, []string{"thumb"}, Single("thumb").Names())
	assert.False(t, Single("thumb").IsMultiple())
	assert.Equal(t, []string{"a", "b"}, Multiple("a", "b").Names())
	assert.True(t, Multiple("a", "b").IsMultiple())
	assert.False(t, Single("").Present())
	assert.False(t, Multiple().Present())
	assert.False(t, FieldSpec{}.Present())
	assert.Equal(t, "[a, b]", Multiple("a", "b").String())
	assert.Equal(t, "thumb", Single("thumb").String())
}

func TestFieldSpecNamesIsCopy(t *testing.T) {
	src := []string{"a", "b"}
	spec := Multiple(src...)
	src[0] = "x"
	names := spec.Names()
	names[1] = "y"
	assert.Equal(t, []string{"a", "b"}, spec.Names())
}

func TestFieldSpecJSON(t *testing.T) {
	var conf struct {
		Single   FieldSpec `json:"single"`
		Multiple FieldSpec `json:"multiple"`
		Missing  FieldSpec `json:"missing"`
		Null     FieldSpec `json:"null"`
	}
	err := json.Unmarshal(
		[]byte(`{"single": "thumb", "multiple": ["thumb_url", "cover_url"], "null": null}`), &conf)
	assert.NoError(t, err)
	assert.Equal(t, Single("thumb"), conf.Single)
	assert.Equal(t, Multiple("thumb_url", "cover_url"), conf.Multiple)
	assert.False(t, conf.Missing.Present())
	assert.False(t, conf.Null.Present())

	data, err := json.Marshal(conf)
	assert.NoError(t, err)
	assert.JSONEq(
		t,
		`{"single": "thumb", "multiple": ["thumb_url", "cover_url"], "missing": null, "null": null}`,
		string(data),
	)
}

func TestFieldSpecJSONInvalid(t *testing.T) {
	var spec FieldSpec
	assert.Error(t, json.Unmarshal([]byte(`42`), &spec))
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &spec))
}
