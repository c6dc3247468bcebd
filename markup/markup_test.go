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

package markup

import (
	"errors"
	"html/template"
	"testing"
	"vitrina/thumbnail"

	"github.com/stretchr/testify/assert"
)

type mapDoc map[string]any

func (d mapDoc) Has(spec thumbnail.FieldSpec) (bool, error) {
	for _, name := range spec.Names() {
		if _, ok := d[name]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (d mapDoc) First(field string) (any, error) {
	return d[field], nil
}

type idDoc struct {
	mapDoc
	id string
}

func (d idDoc) DocumentID() string {
	return d.id
}

type failingDoc struct {
	mapDoc
}

func (d failingDoc) First(field string) (any, error) {
	return nil, errors.New("storage unavailable")
}

func TestImageTag(t *testing.T) {
	it, err := NewImageTagger("")
	assert.NoError(t, err)
	tag, err := it.ImageTag("cover.jpg", thumbnail.Options{"class": "thumb", "width": 120, "title": nil})
	assert.NoError(t, err)
	assert.Equal(t, template.HTML(`<img src="cover.jpg" class="thumb" width="120"/>`), tag)
}

func TestImageTagEscaping(t *testing.T) {
	it, err := NewImageTagger("")
	assert.NoError(t, err)
	tag, err := it.ImageTag("/img?a=1&b=2", thumbnail.Options{"title": `"quoted" <b>`})
	assert.NoError(t, err)
	assert.Equal(
		t,
		template.HTML(`<img src="/img?a=1&amp;b=2" title="&#34;quoted&#34; &lt;b&gt;"/>`),
		tag,
	)
}

func TestImageTagIgnoresSrcOption(t *testing.T) {
	it, err := NewImageTagger("")
	assert.NoError(t, err)
	tag, err := it.ImageTag("a.jpg", thumbnail.Options{"src": "b.jpg"})
	assert.NoError(t, err)
	assert.Equal(t, template.HTML(`<img src="a.jpg"/>`), tag)
}

func TestImageTagBaseURL(t *testing.T) {
	it, err := NewImageTagger("https://img.example.org/thumbs/")
	assert.NoError(t, err)
	tag, err := it.ImageTag("cover.jpg", nil)
	assert.NoError(t, err)
	assert.Equal(t, template.HTML(`<img src="https://img.example.org/thumbs/cover.jpg"/>`), tag)

	tag, err = it.ImageTag("https://other.example.org/x.png", nil)
	assert.NoError(t, err)
	assert.Equal(t, template.HTML(`<img src="https://other.example.org/x.png"/>`), tag)
}

func TestImageTagInvalidSource(t *testing.T) {
	it, err := NewImageTagger("")
	assert.NoError(t, err)
	_, err = it.ImageTag("http://[::1", nil)
	assert.Error(t, err)
}

func TestLinkToDocument(t *testing.T) {
	dl := NewDocLinker("/record/{id}")
	doc := idDoc{id: "rec 1/2"}
	link, err := dl.LinkToDocument(
		doc,
		template.HTML(`<img src="a.jpg"/>`),
		thumbnail.Options{"class": "thumb-link", thumbnail.OptSuppressLink: false, "href": "/elsewhere"},
	)
	assert.NoError(t, err)
	assert.Equal(
		t,
		template.HTML(`<a href="/record/rec%201%2F2" class="thumb-link"><img src="a.jpg"/></a>`),
		link,
	)
}

func TestLinkToDocumentUsesIDField(t *testing.T) {
	dl := NewDocLinker("/record/{id}")
	link, err := dl.LinkToDocument(mapDoc{"id": "abc"}, "x", nil)
	assert.NoError(t, err)
	assert.Equal(t, template.HTML(`<a href="/record/abc">x</a>`), link)
}

func TestLinkToDocumentWithoutID(t *testing.T) {
	dl := NewDocLinker("/record/{id}")
	_, err := dl.LinkToDocument(mapDoc{"id": " "}, "x", nil)
	assert.Equal(t, ErrMissingDocumentID, err)
	_, err = dl.LinkToDocument(failingDoc{}, "x", nil)
	assert.EqualError(t, err, "storage unavailable")
}

func TestISBNCover(t *testing.T) {
	conf := &Conf{}
	assert.NoError(t, conf.ValidateAndDefaults())
	it, err := NewImageTagger("")
	assert.NoError(t, err)
	method := Methods(conf, it)[MethodISBNCover]

	tag, ok, err := method(mapDoc{"isbn": "80-7203-142-x"}, thumbnail.Options{"class": "cover"})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(
		t,
		template.HTML(`<img src="https://covers.openlibrary.org/b/isbn/807203142X-M.jpg" class="cover"/>`),
		tag,
	)

	_, ok, err = method(mapDoc{"isbn": "123"}, nil)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = method(mapDoc{}, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestConfValidation(t *testing.T) {
	conf := &Conf{DocumentURLPattern: "/record/"}
	assert.Error(t, conf.ValidateAndDefaults())
	conf = &Conf{ImageBaseURL: "relative/path"}
	assert.Error(t, conf.ValidateAndDefaults())
	conf = &Conf{CoverURLPattern: "https://covers/{isbn}.jpg"}
	assert.NoError(t, conf.ValidateAndDefaults())
	assert.Equal(t, dfltDocumentURLPattern, conf.DocumentURLPattern)
	assert.Equal(t, dfltCoverField, conf.CoverField)
}
