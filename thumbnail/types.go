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
	"html/template"
	"strings"
)

const (
	// OptSuppressLink is the URL option key telling Render
	// to return the bare image markup
	OptSuppressLink = "suppress_link"
)

// Document is a read-only catalog record as seen
// by the thumbnail resolution.
type Document interface {

	// Has tests whether at least one of the fields named
	// by spec carries a value. How a multi-field spec is
	// evaluated is up to the implementation.
	Has(spec FieldSpec) (bool, error)

	// First returns the first value of a field or nil
	// if there is no such value.
	First(field string) (any, error)
}

// ImageRenderer produces markup for an image with a provided source.
type ImageRenderer interface {
	ImageTag(src any, opts Options) (template.HTML, error)
}

// DocumentLinker wraps markup into a link to a document's detail page.
type DocumentLinker interface {
	LinkToDocument(doc Document, inner template.HTML, opts Options) (template.HTML, error)
}

// Method is a custom thumbnail rendering routine. A returned
// false means there is nothing to render for the document.
type Method func(doc Document, imageOpts Options) (template.HTML, bool, error)

// ViewConfig contains thumbnail related settings of a single
// view (list, gallery, ...). ThumbnailMethod takes precedence
// over ThumbnailField.
type ViewConfig struct {
	ThumbnailMethod Method
	ThumbnailField  FieldSpec
}

func (vc *ViewConfig) hasMethod() bool {
	return vc != nil && vc.ThumbnailMethod != nil
}

func (vc *ViewConfig) hasField() bool {
	return vc != nil && vc.ThumbnailField.Present()
}

// ------

// Options is an opaque bag of options passed to an ImageRenderer
// or a DocumentLinker.
type Options map[string]any

// SuppressLink tells whether the OptSuppressLink flag is set
// to a truthy value. Booleans are taken as they are, strings
// must read "1", "true", "yes" or "on" (case insensitive), any
// other non-nil value counts as set.
func (opts Options) SuppressLink() bool {
	v, ok := opts[OptSuppressLink]
	if !ok || v == nil {
		return false
	}
	switch tv := v.(type) {
	case bool:
		return tv
	case string:
		switch strings.ToLower(strings.TrimSpace(tv)) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	}
	return true
}

// IsBlank tests whether a value should be treated as missing.
// This applies to nil and to strings containing only whitespace.
func IsBlank(v any) bool {
	switch tv := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(tv) == ""
	case *string:
		return tv == nil || strings.TrimSpace(*tv) == ""
	case template.HTML:
		return strings.TrimSpace(string(tv)) == ""
	}
	return false
}
