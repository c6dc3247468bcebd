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
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"vitrina/views"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, indexDir string, viewsJSON string) string {
	src := fmt.Sprintf(`{
		"listenAddress": "127.0.0.1",
		"listenPort": 8085,
		"logLevel": "info",
		"db": {"host": "localhost", "name": "catalog", "user": "vitrina", "table": "records"},
		"redis": {"host": "localhost"},
		"catalog": {"indexDirPath": %q},
		"views": %s
	}`, indexDir, viewsJSON)
	path := filepath.Join(t.TempDir(), "conf.json")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfig(
		t,
		t.TempDir(),
		`{"list": {"thumbnailField": ["thumb", "cover"]}, "gallery": {"thumbnailMethod": "isbnCover"}}`,
	)
	conf := LoadConfig(path)
	assert.Equal(t, path, conf.GetSourcePath())
	assert.NoError(t, Validate(conf))
	assert.Equal(t, dfltTimeZone, conf.TimeZone)
	assert.NotNil(t, conf.TimezoneLocation())
	assert.Equal(t, dfltServerReadTimeoutSecs, conf.ServerReadTimeoutSecs)
	assert.Equal(t, dfltRenderMaxParallel, conf.RenderMaxParallel)
	assert.Equal(t, 3306, conf.DB.Port)
	assert.Equal(t, 6379, conf.Redis.Port)
	assert.Equal(t, 20, conf.Catalog.SearchPageSize)
	assert.Equal(t, "/record/{id}", conf.Markup.DocumentURLPattern)
	assert.Equal(t, []string{"thumb", "cover"}, conf.Views[views.DefaultViewName].ThumbnailField.Names())
	assert.Equal(t, "isbnCover", conf.Views["gallery"].ThumbnailMethod)
	assert.Nil(t, conf.Reporting)
}

func TestValidateMissingDefaultView(t *testing.T) {
	conf := LoadConfig(writeConfig(t, t.TempDir(), `{"gallery": {"thumbnailField": "thumb"}}`))
	assert.Error(t, Validate(conf))
}

func TestValidateMissingIndexDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nonexistent")
	conf := LoadConfig(writeConfig(t, missing, `{"list": {"thumbnailField": "thumb"}}`))
	assert.Error(t, Validate(conf))
}

func TestValidateInvalidTimeZone(t *testing.T) {
	conf := LoadConfig(writeConfig(t, t.TempDir(), `{"list": {"thumbnailField": "thumb"}}`))
	conf.TimeZone = "Mars/Olympus_Mons"
	assert.Error(t, Validate(conf))
}
