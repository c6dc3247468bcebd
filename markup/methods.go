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
	"fmt"
	"html/template"
	"strings"
	"vitrina/thumbnail"
)

const (
	MethodISBNCover = "isbnCover"
)

func normalizeISBN(v string) string {
	var buff strings.Builder
	for _, c := range v {
		if c >= '0' && c <= '9' {
			buff.WriteRune(c)

		} else if c == 'x' || c == 'X' {
			buff.WriteRune('X')
		}
	}
	ans := buff.String()
	if len(ans) != 10 && len(ans) != 13 {
		return ""
	}
	return ans
}

// ISBNCover creates a thumbnail method rendering a cover image
// based on document's ISBN. Documents without a valid ISBN
// have no thumbnail.
func ISBNCover(conf *Conf, images thumbnail.ImageRenderer) thumbnail.Method {
	return func(doc thumbnail.Document, imageOpts thumbnail.Options) (template.HTML, bool, error) {
		v, err := doc.First(conf.CoverField)
		if err != nil {
			return "", false, err
		}
		if thumbnail.IsBlank(v) {
			return "", false, nil
		}
		isbn := normalizeISBN(fmt.Sprint(v))
		if isbn == "" {
			return "", false, nil
		}
		tag, err := images.ImageTag(strings.ReplaceAll(conf.CoverURLPattern, isbnPlaceholder, isbn), imageOpts)
		if err != nil {
			return "", false, err
		}
		return tag, true, nil
	}
}

// Methods returns all the thumbnail methods available
// for view configuration.
func Methods(conf *Conf, images thumbnail.ImageRenderer) map[string]thumbnail.Method {
	return map[string]thumbnail.Method{
		MethodISBNCover: ISBNCover(conf, images),
	}
}
