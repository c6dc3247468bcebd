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

package cnf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"vitrina/catalog"
	"vitrina/docstore"
	"vitrina/markup"
	"vitrina/views"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/hltscl"
	"github.com/rs/zerolog/log"
)

const (
	dfltServerWriteTimeoutSecs = 30
	dfltServerReadTimeoutSecs  = 10
	dfltTimeZone               = "Europe/Prague"
	dfltRenderMaxParallel      = 8
)

// Conf is a global configuration of the app
type Conf struct {
	srcPath                string
	ListenAddress          string                 `json:"listenAddress"`
	ListenPort             int                    `json:"listenPort"`
	ServerReadTimeoutSecs  int                    `json:"serverReadTimeoutSecs"`
	ServerWriteTimeoutSecs int                    `json:"serverWriteTimeoutSecs"`
	TimeZone               string                 `json:"timeZone"`
	LogFile                string                 `json:"logFile"`
	LogLevel               logging.LogLevel       `json:"logLevel"`
	DB                     *docstore.DBConf       `json:"db"`
	Redis                  *docstore.RedisConf    `json:"redis"`
	Catalog                *catalog.Conf          `json:"catalog"`
	Markup                 *markup.Conf           `json:"markup"`
	Views                  map[string]*views.Conf `json:"views"`

	// Reporting is optional. If nil, the app reports only
	// to its log.
	Reporting *hltscl.PgConf `json:"reporting"`

	// RenderMaxParallel specifies max. number of search result
	// thumbnails rendered concurrently
	RenderMaxParallel int `json:"renderMaxParallel"`
}

func (conf *Conf) TimezoneLocation() *time.Location {
	// we can ignore the error here as we always call c.Validate()
	// first (which also tries to load the location and report possible
	// error)
	loc, _ := time.LoadLocation(conf.TimeZone)
	return loc
}

// GetSourcePath returns an absolute path of a file
// the config was loaded from.
func (conf *Conf) GetSourcePath() string {
	if filepath.IsAbs(conf.srcPath) {
		return conf.srcPath
	}
	var cwd string
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "[failed to get working dir]"
	}
	return filepath.Join(cwd, conf.srcPath)
}

// LoadConfig loads and parses a JSON configuration file.
// In case of an error, the function exits the program.
func LoadConfig(path string) *Conf {
	if path == "" {
		log.Fatal().Msg("Cannot load config - path not specified")
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	var conf Conf
	conf.srcPath = path
	err = json.Unmarshal(rawData, &conf)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	return &conf
}

// Validate checks the configuration and sets default values
// where needed. Any error found is returned.
func Validate(conf *Conf) error {
	if conf.ListenPort == 0 {
		return fmt.Errorf("missing listenPort")
	}
	if conf.ServerWriteTimeoutSecs == 0 {
		conf.ServerWriteTimeoutSecs = dfltServerWriteTimeoutSecs
		log.Warn().Msgf(
			"serverWriteTimeoutSecs not specified, using default: %d",
			dfltServerWriteTimeoutSecs,
		)
	}
	if conf.ServerReadTimeoutSecs == 0 {
		conf.ServerReadTimeoutSecs = dfltServerReadTimeoutSecs
		log.Warn().Msgf(
			"serverReadTimeoutSecs not specified, using default: %d",
			dfltServerReadTimeoutSecs,
		)
	}
	if conf.TimeZone == "" {
		log.Warn().
			Str("timeZone", dfltTimeZone).
			Msg("time zone not specified, using default")
		conf.TimeZone = dfltTimeZone
	}
	if _, err := time.LoadLocation(conf.TimeZone); err != nil {
		return fmt.Errorf("invalid time zone: %w", err)
	}
	if conf.RenderMaxParallel == 0 {
		conf.RenderMaxParallel = dfltRenderMaxParallel
		log.Warn().
			Int("value", conf.RenderMaxParallel).
			Msg("renderMaxParallel not specified, using default")

	} else if conf.RenderMaxParallel < 0 {
		return fmt.Errorf("renderMaxParallel must be > 0")
	}
	if err := conf.DB.ValidateAndDefaults(); err != nil {
		return fmt.Errorf("invalid `db` section: %w", err)
	}
	if err := conf.Redis.ValidateAndDefaults(); err != nil {
		return fmt.Errorf("invalid `redis` section: %w", err)
	}
	if err := conf.Catalog.ValidateAndDefaults(); err != nil {
		return fmt.Errorf("invalid `catalog` section: %w", err)
	}
	if conf.Markup == nil {
		conf.Markup = &markup.Conf{}
		log.Warn().Msg("missing `markup` section, using defaults")
	}
	if err := conf.Markup.ValidateAndDefaults(); err != nil {
		return fmt.Errorf("invalid `markup` section: %w", err)
	}
	if _, ok := conf.Views[views.DefaultViewName]; !ok {
		return fmt.Errorf("missing configuration of the default view `%s`", views.DefaultViewName)
	}
	if conf.Reporting == nil {
		log.Warn().Msg("no `reporting` section, status data will be written to the log only")
	}
	return nil
}

// ValidateAndDefaults validates the configuration and exits
// the program in case of a problem.
func ValidateAndDefaults(conf *Conf) {
	if err := Validate(conf); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
}
