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
	"errors"
	"fmt"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingDoc struct {
	fields     map[string]any
	firstCalls []string
	hasCalls   int
	firstErr   error
}

func (d *countingDoc) Has(spec FieldSpec) (bool, error) {
	d.hasCalls++
	for _, name := range spec.Names() {
		if _, ok := d.fields[name]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (d *countingDoc) First(field string) (any, error) {
	d.firstCalls = append(d.firstCalls, field)
	if d.firstErr != nil {
		return nil, d.firstErr
	}
	return d.fields[field], nil
}

func (d *countingDoc) numAccesses() int {
	return d.hasCalls + len(d.firstCalls)
}

type fakeImages struct {
	calls int
	err   error
}

func (fi *fakeImages) ImageTag(src any, opts Options) (template.HTML, error) {
	fi.calls++
	if fi.err != nil {
		return "", fi.err
	}
	return template.HTML(fmt.Sprintf(`<img src="%v" class="%v">`, src, opts["class"])), nil
}

type fakeLinker struct {
	calls    int
	lastOpts Options
	err      error
}

func (fl *fakeLinker) LinkToDocument(doc Document, inner template.HTML, opts Options) (template.HTML, error) {
	fl.calls++
	fl.lastOpts = opts
	if fl.err != nil {
		return "", fl.err
	}
	return template.HTML(fmt.Sprintf(`<a href="/doc">%s</a>`, inner)), nil
}

func prepareResolver() (*Resolver, *fakeImages, *fakeLinker) {
	images := &fakeImages{}
	linker := &fakeLinker{}
	return NewResolver(images, linker), images, linker
}

func constMethod(markup template.HTML) (Method, *int) {
	var calls int
	return func(doc Document, imageOpts Options) (template.HTML, bool, error) {
		calls++
		return markup, true, nil
	}, &calls
}

func TestExistsWithMethodIgnoresFields(t *testing.T) {
	res, _, _ := prepareResolver()
	method, _ := constMethod("<img>")
	doc := &countingDoc{}
	ok, err := res.Exists(doc, &ViewConfig{ThumbnailMethod: method, ThumbnailField: Single("thumb")})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, doc.numAccesses())
}

func TestExistsWithoutConfig(t *testing.T) {
	res, _, _ := prepareResolver()
	doc := &countingDoc{fields: map[string]any{"thumb": "a.jpg"}}
	ok, err := res.Exists(doc, &ViewConfig{})
	assert.NoError(t, err)
	assert.False(t, ok)
	ok, err = res.Exists(doc, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestExistsAndRenderWithMissingFields(t *testing.T) {
	res, images, linker := prepareResolver()
	doc := &countingDoc{fields: map[string]any{"title": "Krakatit"}}
	view := &ViewConfig{ThumbnailField: Multiple("thumb", "cover")}
	ok, err := res.Exists(doc, view)
	assert.NoError(t, err)
	assert.False(t, ok)

	markup, ok, err := res.Render(doc, view, nil, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, template.HTML(""), markup)
	assert.Equal(t, 0, images.calls)
	assert.Equal(t, 0, linker.calls)
}

func TestExistsPassesRawSpecToDocument(t *testing.T) {
	res, _, _ := prepareResolver()
	doc := &countingDoc{fields: map[string]any{"cover": ""}}
	ok, err := res.Exists(doc, &ViewConfig{ThumbnailField: Multiple("thumb", "cover")})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, doc.hasCalls)
	assert.Empty(t, doc.firstCalls)
}

func TestFieldScanIsLazy(t *testing.T) {
	res, images, _ := prepareResolver()
	doc := &countingDoc{fields: map[string]any{"a": "a.jpg", "b": "b.jpg"}}
	_, ok, err := res.Render(doc, &ViewConfig{ThumbnailField: Multiple("a", "b")}, nil, nil)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, doc.firstCalls)
	assert.Equal(t, 1, images.calls)
}

func TestMethodTakesPrecedence(t *testing.T) {
	res, images, linker := prepareResolver()
	method, calls := constMethod(`<img src="custom.png">`)
	doc := &countingDoc{fields: map[string]any{"thumb": "a.jpg"}}
	view := &ViewConfig{ThumbnailMethod: method, ThumbnailField: Single("thumb")}
	markup, ok, err := res.Render(doc, view, nil, Options{OptSuppressLink: true})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, template.HTML(`<img src="custom.png">`), markup)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, 0, doc.numAccesses())
	assert.Equal(t, 0, images.calls)
	assert.Equal(t, 0, linker.calls)
}

func TestMethodReturningNothingHasNoFallback(t *testing.T) {
	res, images, linker := prepareResolver()
	method := func(doc Document, imageOpts Options) (template.HTML, bool, error) {
		return "", false, nil
	}
	doc := &countingDoc{fields: map[string]any{"thumb": "a.jpg"}}
	view := &ViewConfig{ThumbnailMethod: method, ThumbnailField: Single("thumb")}
	_, ok, err := res.Render(doc, view, nil, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, doc.numAccesses())
	assert.Equal(t, 0, images.calls)
	assert.Equal(t, 0, linker.calls)
}

func TestMethodReceivesImageOptions(t *testing.T) {
	res, _, _ := prepareResolver()
	var received Options
	method := func(doc Document, imageOpts Options) (template.HTML, bool, error) {
		received = imageOpts
		return "<img>", true, nil
	}
	_, _, err := res.Render(&countingDoc{}, &ViewConfig{ThumbnailMethod: method}, Options{"class": "small"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, Options{"class": "small"}, received)
}

func TestSuppressLink(t *testing.T) {
	res, images, linker := prepareResolver()
	doc := &countingDoc{fields: map[string]any{"thumb": "cover.jpg"}}
	markup, ok, err := res.Render(
		doc,
		&ViewConfig{ThumbnailField: Single("thumb")},
		Options{"class": "small"},
		Options{OptSuppressLink: true},
	)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, template.HTML(`<img src="cover.jpg" class="small">`), markup)
	assert.Equal(t, 1, images.calls)
	assert.Equal(t, 0, linker.calls)
}

func TestBlankValuesAreSkipped(t *testing.T) {
	res, _, _ := prepareResolver()
	doc := &countingDoc{fields: map[string]any{"a": "", "b": "x.jpg"}}
	markup, ok, err := res.Render(
		doc, &ViewConfig{ThumbnailField: Multiple("a", "b")}, nil, Options{OptSuppressLink: true})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, template.HTML(`<img src="x.jpg" class="<nil>">`), markup)
	assert.Equal(t, []string{"a", "b"}, doc.firstCalls)
}

func TestWhitespaceValueIsBlank(t *testing.T) {
	res, images, _ := prepareResolver()
	doc := &countingDoc{fields: map[string]any{"thumb": "  \t"}}
	_, ok, err := res.Render(doc, &ViewConfig{ThumbnailField: Single("thumb")}, nil, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, images.calls)
}

func TestRenderLinksImage(t *testing.T) {
	res, images, linker := prepareResolver()
	doc := &countingDoc{fields: map[string]any{"thumb": "cover.jpg"}}
	markup, ok, err := res.Render(doc, &ViewConfig{ThumbnailField: Single("thumb")}, nil, Options{})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, template.HTML(`<a href="/doc"><img src="cover.jpg" class="<nil>"></a>`), markup)
	assert.Equal(t, 1, images.calls)
	assert.Equal(t, 1, linker.calls)
	assert.Equal(t, Options{}, linker.lastOpts)
}

func TestNothingConfiguredCallsNoCollaborator(t *testing.T) {
	res, images, linker := prepareResolver()
	doc := &countingDoc{}
	ok, err := res.Exists(doc, &ViewConfig{})
	assert.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = res.Render(doc, &ViewConfig{}, nil, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, doc.numAccesses())
	assert.Equal(t, 0, images.calls)
	assert.Equal(t, 0, linker.calls)
}

func TestCollaboratorErrorsPropagate(t *testing.T) {
	errDoc := errors.New("field lookup failed")
	errImg := errors.New("image failed")
	errLink := errors.New("link failed")
	errMethod := errors.New("method failed")
	view := &ViewConfig{ThumbnailField: Single("thumb")}

	res, _, _ := prepareResolver()
	_, ok, err := res.Render(&countingDoc{firstErr: errDoc}, view, nil, nil)
	assert.False(t, ok)
	assert.Same(t, errDoc, err)

	images := &fakeImages{err: errImg}
	res = NewResolver(images, &fakeLinker{})
	_, _, err = res.Render(&countingDoc{fields: map[string]any{"thumb": "a.jpg"}}, view, nil, nil)
	assert.Same(t, errImg, err)

	res = NewResolver(&fakeImages{}, &fakeLinker{err: errLink})
	_, ok, err = res.Render(&countingDoc{fields: map[string]any{"thumb": "a.jpg"}}, view, nil, nil)
	assert.False(t, ok)
	assert.Same(t, errLink, err)

	method := func(doc Document, imageOpts Options) (template.HTML, bool, error) {
		return "", false, errMethod
	}
	res, _, _ = prepareResolver()
	_, _, err = res.Render(&countingDoc{}, &ViewConfig{ThumbnailMethod: method}, nil, nil)
	assert.Same(t, errMethod, err)
}

func TestPresenter(t *testing.T) {
	res, _, _ := prepareResolver()
	doc := &countingDoc{fields: map[string]any{"thumb": "cover.jpg"}}
	p := NewPresenter(doc, &ViewConfig{ThumbnailField: Single("thumb")}, res)
	ok, err := p.Exists()
	assert.NoError(t, err)
	assert.True(t, ok)
	markup, ok, err := p.Tag(nil, Options{OptSuppressLink: "true"})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, template.HTML(`<img src="cover.jpg" class="<nil>">`), markup)
}
