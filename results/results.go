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

package results

import (
	"context"
	"errors"
	"html/template"
	"time"
	"vitrina/reporting"
	"vitrina/thumbnail"

	"golang.org/x/sync/errgroup"
)

const (
	dfltMaxParallel = 8
)

// Document is a search result record we are able
// to render thumbnail for.
type Document interface {
	thumbnail.Document
	DocumentID() string
	AllFields() map[string]any
}

// scoredDoc is a document matched by a fulltext search
type scoredDoc interface {
	Score() float64
}

// Item is a rendered search result item
type Item struct {
	ID           string         `json:"id"`
	Score        float64        `json:"score,omitempty"`
	Fields       map[string]any `json:"fields"`
	HasThumbnail bool           `json:"hasThumbnail"`
	Thumbnail    template.HTML  `json:"thumbnail,omitempty"`
}

// Renderer renders thumbnails for a page of search results.
// Documents are processed in parallel as each thumbnail
// resolution is independent of the others.
type Renderer struct {
	resolver    *thumbnail.Resolver
	reporting   reporting.IReporting
	maxParallel int
}

func (r *Renderer) renderItem(
	doc Document,
	view *thumbnail.ViewConfig,
	imageOpts thumbnail.Options,
	urlOpts thumbnail.Options,
) (Item, error) {
	item := Item{
		ID:     doc.DocumentID(),
		Fields: doc.AllFields(),
	}
	if sdoc, ok := doc.(scoredDoc); ok {
		item.Score = sdoc.Score()
	}
	exists, err := r.resolver.Exists(doc, view)
	if err != nil {
		return item, err
	}
	item.HasThumbnail = exists
	if !exists {
		return item, nil
	}
	markup, ok, err := r.resolver.Render(doc, view, imageOpts, urlOpts)
	if err != nil {
		return item, err
	}
	if ok {
		item.Thumbnail = markup
	}
	return item, nil
}

// RenderPage renders all the documents, keeping their order. Each
// document's thumbnail is rendered only if the resolver reports it exists.
// The first error encountered is returned and the rendering of the
// remaining documents is cancelled.
func (r *Renderer) RenderPage(
	ctx context.Context,
	viewName string,
	view *thumbnail.ViewConfig,
	docs []Document,
	imageOpts thumbnail.Options,
	urlOpts thumbnail.Options,
) ([]Item, error) {
	t0 := time.Now()
	ans := make([]Item, len(docs))
	errs := make([]error, len(docs))
	done := make([]bool, len(docs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.maxParallel)
	for i, doc := range docs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			item, err := r.renderItem(doc, view, imageOpts, urlOpts)
			ans[i] = item
			errs[i] = err
			done[i] = true
			return err
		})
	}
	err := eg.Wait()
	stats := reporting.RenderStats{
		View:         viewName,
		NumDocuments: len(docs),
		ProcTimeMs:   time.Since(t0).Milliseconds(),
	}
	for i, item := range ans {
		if !done[i] || errors.Is(errs[i], context.Canceled) {
			stats.NumCancelled++

		} else if errs[i] != nil {
			stats.NumErrors++

		} else if item.Thumbnail != "" {
			stats.NumRendered++

		} else {
			stats.NumAbsent++
		}
	}
	r.reporting.WriteRenderStatus(stats)
	if err != nil {
		return []Item{}, err
	}
	return ans, nil
}

// AsDocuments is a helper to convert a slice of concrete
// document types into a slice of Document.
func AsDocuments[T Document](docs []T) []Document {
	ans := make([]Document, len(docs))
	for i, d := range docs {
		ans[i] = d
	}
	return ans
}

func NewRenderer(resolver *thumbnail.Resolver, rep reporting.IReporting, maxParallel int) *Renderer {
	if maxParallel <= 0 {
		maxParallel = dfltMaxParallel
	}
	return &Renderer{
		resolver:    resolver,
		reporting:   rep,
		maxParallel: maxParallel,
	}
}
