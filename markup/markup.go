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
	"fmt"
	"html/template"
	"net/url"
	"sort"
	"strings"
	"vitrina/thumbnail"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	ErrMissingDocumentID = errors.New("cannot link document without ID")
)

// identifiedDoc is a document able to tell its ID directly.
// Other documents are asked for their `id` field.
type identifiedDoc interface {
	DocumentID() string
}

// optsToAttrs converts an option bag into element attributes.
// Attributes are sorted by name, nil values and reserved
// names are skipped.
func optsToAttrs(opts thumbnail.Options, reserved ...string) []html.Attribute {
	keys := make([]string, 0, len(opts))
	for k, v := range opts {
		if v == nil {
			continue
		}
		var skip bool
		for _, r := range reserved {
			if k == r {
				skip = true
				break
			}
		}
		if !skip {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	ans := make([]html.Attribute, len(keys))
	for i, k := range keys {
		ans[i] = html.Attribute{Key: k, Val: fmt.Sprint(opts[k])}
	}
	return ans
}

func renderNode(node *html.Node) (template.HTML, error) {
	var buff strings.Builder
	if err := html.Render(&buff, node); err != nil {
		return "", fmt.Errorf("failed to render %s element: %w", node.Data, err)
	}
	return template.HTML(buff.String()), nil
}

// ------

// ImageTagger renders <img> elements
type ImageTagger struct {
	baseURL *url.URL
}

func (it *ImageTagger) resolveSrc(src string) (string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("invalid image source %s: %w", src, err)
	}
	if it.baseURL == nil || u.IsAbs() {
		return src, nil
	}
	return it.baseURL.ResolveReference(u).String(), nil
}

// ImageTag renders an image with a provided source. All the non-nil
// options are rendered as attributes (an option `src` is ignored).
func (it *ImageTagger) ImageTag(src any, opts thumbnail.Options) (template.HTML, error) {
	s := strings.TrimSpace(fmt.Sprint(src))
	resolved, err := it.resolveSrc(s)
	if err != nil {
		return "", err
	}
	node := &html.Node{
		Type:     html.ElementNode,
		Data:     "img",
		DataAtom: atom.Img,
		Attr:     append([]html.Attribute{{Key: "src", Val: resolved}}, optsToAttrs(opts, "src")...),
	}
	return renderNode(node)
}

// NewImageTagger creates a new image renderer. The baseURL
// can be empty in which case relative sources are kept
// as they are.
func NewImageTagger(baseURL string) (*ImageTagger, error) {
	ans := &ImageTagger{}
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create ImageTagger: %w", err)
		}
		ans.baseURL = u
	}
	return ans, nil
}

// ------

// DocLinker wraps markup into a link to a document detail page.
type DocLinker struct {
	pattern string
}

func (dl *DocLinker) DocumentURL(doc thumbnail.Document) (string, error) {
	var id string
	if idoc, ok := doc.(identifiedDoc); ok {
		id = idoc.DocumentID()

	} else {
		v, err := doc.First("id")
		if err != nil {
			return "", err
		}
		if !thumbnail.IsBlank(v) {
			id = fmt.Sprint(v)
		}
	}
	if strings.TrimSpace(id) == "" {
		return "", ErrMissingDocumentID
	}
	return strings.ReplaceAll(dl.pattern, idPlaceholder, url.PathEscape(id)), nil
}

// LinkToDocument creates an <a> element with the `inner` markup as its
// (unescaped) content. Non-nil options except for `href` and the link
// suppression flag are rendered as attributes.
func (dl *DocLinker) LinkToDocument(
	doc thumbnail.Document,
	inner template.HTML,
	opts thumbnail.Options,
) (template.HTML, error) {
	href, err := dl.DocumentURL(doc)
	if err != nil {
		return "", err
	}
	node := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr: append(
			[]html.Attribute{{Key: "href", Val: href}},
			optsToAttrs(opts, "href", thumbnail.OptSuppressLink)...,
		),
	}
	node.AppendChild(&html.Node{Type: html.RawNode, Data: string(inner)})
	return renderNode(node)
}

func NewDocLinker(pattern string) *DocLinker {
	return &DocLinker{pattern: pattern}
}
