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

package main

import (
	"errors"
	"net/http"
	"time"
	"vitrina/catalog"
	"vitrina/docstore"
	"vitrina/thumbnail"
	"vitrina/views"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	thumbnailCSSClass = "thumbnail"
)

type Actions struct {
	store         *docstore.Store
	indexer       *catalog.Indexer
	views         *views.Registry
	resolver      *thumbnail.Resolver
	removeChannel string
	tz            *time.Location
}

func (a *Actions) Overview(ctx *gin.Context) {
	ans := make(map[string]any)
	count, err := a.indexer.DocCount()
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	queueLen, err := a.store.Redis().QueueLength()
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	ans["indexedDocuments"] = count
	ans["indexingQueueLength"] = queueLen
	ans["indexer"] = a.indexer.GetStats()
	ans["views"] = a.views.Names()
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

func (a *Actions) GetRecord(ctx *gin.Context) {
	rec, err := a.store.LoadRecord(ctx.Param("id"))
	if err == docstore.ErrRecordNotFound {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusNotFound)
		return

	} else if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, rec)
}

// RecordThumbnail renders a thumbnail of a stored record as an HTML
// fragment. In case there is nothing to render, 204 is returned.
func (a *Actions) RecordThumbnail(ctx *gin.Context) {
	view, err := a.views.Get(ctx.DefaultQuery("view", views.DefaultViewName))
	if errors.Is(err, views.ErrUnknownView) {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusNotFound)
		return
	}
	rawRec, err := a.store.LoadRecord(ctx.Param("id"))
	if err == docstore.ErrRecordNotFound {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusNotFound)
		return

	} else if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	rec, err := catalog.RecToRecord(&rawRec)
	if err == catalog.ErrRecordNotIndexable {
		ctx.Status(http.StatusNoContent)
		return

	} else if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	urlOpts := thumbnail.Options{}
	if v, ok := ctx.GetQuery("suppressLink"); ok {
		urlOpts[thumbnail.OptSuppressLink] = v
	}
	markup, ok, err := thumbnail.NewPresenter(rec, view, a.resolver).Tag(
		thumbnail.Options{"class": thumbnailCSSClass},
		urlOpts,
	)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	if !ok {
		ctx.Status(http.StatusNoContent)
		return
	}
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(markup))
}

// StoreRecord saves a record from the request body (a JSON object)
// and queues it for indexing.
func (a *Actions) StoreRecord(ctx *gin.Context) {
	data, err := ctx.GetRawData()
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	rec, err := docstore.NewRawRecord(data, time.Now().In(a.tz))
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	if err := a.store.SaveRecord(rec); err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	log.Info().Str("recordId", rec.ID).Msg("stored new catalog record")
	uniresp.WriteJSONResponse(ctx.Writer, map[string]any{"id": rec.ID})
}

// Reindex queues an existing record for indexing
func (a *Actions) Reindex(ctx *gin.Context) {
	err := a.store.Reindex(ctx.Param("id"))
	if err == docstore.ErrRecordNotFound {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusNotFound)
		return

	} else if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, map[string]any{"ok": true})
}

func (a *Actions) RemoveRecord(ctx *gin.Context) {
	if err := a.store.RemoveRecord(ctx.Param("id"), a.removeChannel); err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, map[string]any{"ok": true})
}
