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

package views

import (
	"errors"
	"fmt"
	"sort"
	"vitrina/thumbnail"

	"github.com/rs/zerolog/log"
)

const (
	DefaultViewName = "list"
)

var (
	ErrUnknownView = errors.New("unknown view")
)

// Conf is a JSON configuration of a view. A thumbnail
// method is referred by its name and resolved once
// when creating the Registry.
type Conf struct {
	ThumbnailMethod string              `json:"thumbnailMethod"`
	ThumbnailField  thumbnail.FieldSpec `json:"thumbnailField"`
}

// Registry holds resolved view configurations.
type Registry struct {
	views map[string]*thumbnail.ViewConfig
}

// Get returns a configuration of a view or ErrUnknownView
func (reg *Registry) Get(name string) (*thumbnail.ViewConfig, error) {
	v, ok := reg.views[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownView, name)
	}
	return v, nil
}

func (reg *Registry) Names() []string {
	ans := make([]string, 0, len(reg.views))
	for k := range reg.views {
		ans = append(ans, k)
	}
	sort.Strings(ans)
	return ans
}

// NewRegistry resolves configured method names against the provided
// methods. An unknown method name is a configuration error.
func NewRegistry(confs map[string]*Conf, methods map[string]thumbnail.Method) (*Registry, error) {
	ans := &Registry{views: make(map[string]*thumbnail.ViewConfig, len(confs))}
	for name, conf := range confs {
		if conf == nil {
			return nil, fmt.Errorf("failed to create view %s: empty configuration", name)
		}
		view := &thumbnail.ViewConfig{ThumbnailField: conf.ThumbnailField}
		if conf.ThumbnailMethod != "" {
			m, ok := methods[conf.ThumbnailMethod]
			if !ok || m == nil {
				return nil, fmt.Errorf(
					"failed to create view %s: unknown thumbnail method %s", name, conf.ThumbnailMethod)
			}
			view.ThumbnailMethod = m
		}
		if view.ThumbnailMethod == nil && !view.ThumbnailField.Present() {
			log.Warn().Str("view", name).Msg("view has no thumbnail source configured")
		}
		ans.views[name] = view
	}
	return ans, nil
}
