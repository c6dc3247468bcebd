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
	"errors"
	"net/http"
	"strconv"
	"vitrina/results"
	"vitrina/thumbnail"
	"vitrina/views"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
)

const (
	defaultNumRecentRecs = 100
	thumbnailCSSClass    = "thumbnail"
)

type searchResponse struct {
	Total uint64         `json:"total"`
	Page  int            `json:"page"`
	View  string         `json:"view"`
	Items []results.Item `json:"items"`
}

type Actions struct {
	indexer  *Indexer
	views    *views.Registry
	renderer *results.Renderer
}

func (a *Actions) IndexLatestRecords(ctx *gin.Context) {
	numRec := ctx.Query("numRec")
	if numRec == "" {
		newURL := *ctx.Request.URL
		newQuery := newURL.Query()
		newQuery.Set("numRec", strconv.Itoa(defaultNumRecentRecs))
		newURL.RawQuery = newQuery.Encode()
		ctx.Redirect(http.StatusSeeOther, newURL.String())
		return
	}

	iNumRec, err := strconv.Atoi(numRec)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}

	if ctx.Query("force") == "1" {
		a.indexer.ResetDeduplicator()
	}
	numProc, err := a.indexer.IndexRecentRecords(iNumRec)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	count, err := a.indexer.DocCount()
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	resp := map[string]any{
		"totalDocuments": count,
		"numProcessed":   numProc,
	}
	uniresp.WriteJSONResponse(ctx.Writer, resp)
}

func (a *Actions) Search(ctx *gin.Context) {
	viewName := ctx.DefaultQuery("view", views.DefaultViewName)
	view, err := a.views.Get(viewName)
	if errors.Is(err, views.ErrUnknownView) {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusNotFound)
		return
	}
	page := 1
	if ctx.Query("page") != "" {
		page, err = strconv.Atoi(ctx.Query("page"))
		if err != nil || page < 1 {
			uniresp.RespondWithErrorJSON(
				ctx, errors.New("invalid page number"), http.StatusBadRequest)
			return
		}
	}
	advanced := ctx.Query("advanced") == "1" || ctx.Query("advanced") == "true"
	res, err := a.indexer.Search(ctx.Query("q"), advanced, page)
	if errors.Is(err, ErrEmptyAdvancedQuery) {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return

	} else if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	urlOpts := thumbnail.Options{}
	if v, ok := ctx.GetQuery("suppressLink"); ok {
		urlOpts[thumbnail.OptSuppressLink] = v
	}
	items, err := a.renderer.RenderPage(
		ctx.Request.Context(),
		viewName,
		view,
		results.AsDocuments(HitsOf(res.Hits)),
		thumbnail.Options{"class": thumbnailCSSClass},
		urlOpts,
	)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	uniresp.WriteJSONResponse(
		ctx.Writer,
		searchResponse{
			Total: res.Total,
			Page:  page,
			View:  viewName,
			Items: items,
		},
	)
}

func NewActions(indexer *Indexer, viewReg *views.Registry, renderer *results.Renderer) *Actions {
	return &Actions{
		indexer:  indexer,
		views:    viewReg,
		renderer: renderer,
	}
}
