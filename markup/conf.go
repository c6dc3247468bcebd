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
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	idPlaceholder   = "{id}"
	isbnPlaceholder = "{isbn}"

	dfltDocumentURLPattern = "/record/{id}"
	dfltCoverURLPattern    = "https://covers.openlibrary.org/b/isbn/{isbn}-M.jpg"
	dfltCoverField         = "isbn"
)

type Conf struct {

	// ImageBaseURL is used to resolve relative image sources.
	// If empty, sources are used as they are.
	ImageBaseURL string `json:"imageBaseUrl"`

	// DocumentURLPattern is a pattern of document detail URL
	// with the {id} placeholder (e.g. `/record/{id}`)
	DocumentURLPattern string `json:"documentUrlPattern"`

	// CoverURLPattern is a pattern for the `isbnCover` thumbnail
	// method with the {isbn} placeholder
	CoverURLPattern string `json:"coverUrlPattern"`

	// CoverField is a record field containing ISBN
	CoverField string `json:"coverField"`
}

func (conf *Conf) ValidateAndDefaults() error {
	if conf == nil {
		return fmt.Errorf("missing `markup` section")
	}
	if conf.ImageBaseURL != "" {
		u, err := url.Parse(conf.ImageBaseURL)
		if err != nil {
			return fmt.Errorf("invalid imageBaseUrl: %w", err)
		}
		if !u.IsAbs() {
			return fmt.Errorf("imageBaseUrl must be an absolute URL")
		}
	}
	if conf.DocumentURLPattern == "" {
		conf.DocumentURLPattern = dfltDocumentURLPattern
		log.Warn().
			Str("value", conf.DocumentURLPattern).
			Msg("markup value `documentUrlPattern` not set, using default")

	} else if !strings.Contains(conf.DocumentURLPattern, idPlaceholder) {
		return fmt.Errorf("documentUrlPattern must contain %s", idPlaceholder)
	}
	if conf.CoverURLPattern == "" {
		conf.CoverURLPattern = dfltCoverURLPattern
		log.Warn().
			Str("value", conf.CoverURLPattern).
			Msg("markup value `coverUrlPattern` not set, using default")

	} else if !strings.Contains(conf.CoverURLPattern, isbnPlaceholder) {
		return fmt.Errorf("coverUrlPattern must contain %s", isbnPlaceholder)
	}
	if conf.CoverField == "" {
		conf.CoverField = dfltCoverField
	}
	return nil
}
