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

	"github.com/rs/zerolog/log"
)

// Resolver decides whether a document has a thumbnail and renders it.
// It keeps no per-call state so a single instance can be shared
// by concurrently rendered documents.
//
// Errors returned by the collaborators (document, method, image
// renderer, linker) are passed to the caller as they are.
type Resolver struct {
	images ImageRenderer
	linker DocumentLinker
}

// Exists tells whether there is a thumbnail to render for the document.
// It only inspects the configuration and field presence, no markup
// is produced.
func (r *Resolver) Exists(doc Document, view *ViewConfig) (bool, error) {
	if view.hasMethod() {
		return true, nil
	}
	if !view.hasField() {
		return false, nil
	}
	return doc.Has(view.ThumbnailField)
}

// Render renders the thumbnail (if available) and links it to the
// document record unless urlOpts contain a truthy OptSuppressLink.
// The returned bool is false if there is nothing to render.
func (r *Resolver) Render(
	doc Document,
	view *ViewConfig,
	imageOpts Options,
	urlOpts Options,
) (template.HTML, bool, error) {
	if imageOpts == nil {
		imageOpts = Options{}
	}
	if urlOpts == nil {
		urlOpts = Options{}
	}
	value, ok, err := r.value(doc, view, imageOpts)
	if err != nil || !ok {
		return "", false, err
	}
	if urlOpts.SuppressLink() {
		return value, true, nil
	}
	linked, err := r.linker.LinkToDocument(doc, value, urlOpts)
	if err != nil {
		return "", false, err
	}
	return linked, true, nil
}

// value produces thumbnail markup. Exactly one strategy is applied,
// there is no fallback from a method to field lookup.
func (r *Resolver) value(doc Document, view *ViewConfig, imageOpts Options) (template.HTML, bool, error) {
	if view.hasMethod() {
		return view.ThumbnailMethod(doc, imageOpts)
	}
	if !view.hasField() {
		return "", false, nil
	}
	for _, field := range view.ThumbnailField.Names() {
		src, err := doc.First(field)
		if err != nil {
			return "", false, err
		}
		if IsBlank(src) {
			continue
		}
		tag, err := r.images.ImageTag(src, imageOpts)
		if err != nil {
			return "", false, err
		}
		return tag, true, nil
	}
	log.Debug().
		Str("fields", view.ThumbnailField.String()).
		Msg("no thumbnail source found")
	return "", false, nil
}

func NewResolver(images ImageRenderer, linker DocumentLinker) *Resolver {
	return &Resolver{
		images: images,
		linker: linker,
	}
}

// ------

// Presenter binds a document and a view so templates
// can ask about a thumbnail without passing them around.
type Presenter struct {
	doc      Document
	view     *ViewConfig
	resolver *Resolver
}

func (p *Presenter) Exists() (bool, error) {
	return p.resolver.Exists(p.doc, p.view)
}

func (p *Presenter) Tag(imageOpts, urlOpts Options) (template.HTML, bool, error) {
	return p.resolver.Render(p.doc, p.view, imageOpts, urlOpts)
}

func NewPresenter(doc Document, view *ViewConfig, resolver *Resolver) *Presenter {
	return &Presenter{
		doc:      doc,
		view:     view,
		resolver: resolver,
	}
}
