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

package catalog

import (
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/character"
	"github.com/blevesearch/bleve/v2/registry"
)

const (
	TokenizerName = "catalog_tokenizer"

	// separatorChars split catalog values like file names, ISBNs,
	// shelf marks or URLs into searchable parts.
	separatorChars = `:;,#?!.%$@()*[]"'~/|+=-_^&><`
)

func isCatalogWordChar(r rune) bool {
	return !unicode.IsSpace(r) && !strings.ContainsRune(separatorChars, r)
}

func tokenizerConstructor(config map[string]any, cache *registry.Cache) (analysis.Tokenizer, error) {
	return character.NewCharacterTokenizer(isCatalogWordChar), nil
}

func init() {
	registry.RegisterTokenizer(TokenizerName, tokenizerConstructor)
}
