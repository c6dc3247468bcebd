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
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	"vitrina/catalog"
	"vitrina/cnf"
	"vitrina/docstore"
	"vitrina/markup"
	"vitrina/reporting"
	"vitrina/results"
	"vitrina/thumbnail"
	"vitrina/views"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/rs/zerolog/log"
)

var (
	version   string
	buildDate string
	gitCommit string
)

type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
}

type service interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

func cleanVersionInfo(v string) string {
	return strings.TrimLeft(strings.Trim(v, "'"), "v")
}

func createReporting(conf *cnf.Conf) reporting.IReporting {
	if conf.Reporting == nil {
		return &reporting.DummyWriter{}
	}
	rep, err := reporting.NewStatusWriter(
		*conf.Reporting,
		conf.TimezoneLocation(),
		func(err error) {
			log.Error().Err(err).Msg("failed to write status data")
		},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize status reporting")
	}
	return rep
}

func main() {
	version := VersionInfo{
		Version:   cleanVersionInfo(version),
		BuildDate: cleanVersionInfo(buildDate),
		GitCommit: cleanVersionInfo(gitCommit),
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Vitrina - catalog search with record thumbnails\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n\t%s [options] start [config.json]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] version\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	action := flag.Arg(0)
	if action == "version" {
		fmt.Printf("vitrina %s\nbuild date: %s\nlast commit: %s\n", version.Version, version.BuildDate, version.GitCommit)
		return

	} else if action != "start" {
		log.Fatal().Msgf("Unknown action %s", action)
	}
	conf := cnf.LoadConfig(flag.Arg(1))
	logging.SetupLogging(conf.LogFile, conf.LogLevel)
	log.Info().Msg("Starting Vitrina")
	cnf.ValidateAndDefaults(conf)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := docstore.NewRedisAdapter(ctx, conf.Redis)
	if err := rdb.Ping(); err != nil {
		log.Fatal().Err(err).Str("redis", rdb.String()).Msg("failed to connect to Redis")
	}
	log.Info().Str("redis", rdb.String()).Msg("connected to Redis")

	db, err := docstore.DBOpen(conf.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open SQL database")
	}
	dbOps := docstore.NewMySQLOps(db, conf.DB.Table, conf.TimezoneLocation())
	store := docstore.NewStore(rdb, dbOps)

	rep := createReporting(conf)

	idx, err := catalog.NewIndexer(conf.Catalog, dbOps, rdb, rep)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize catalog indexer")
	}

	images, err := markup.NewImageTagger(conf.Markup.ImageBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize image markup")
	}
	resolver := thumbnail.NewResolver(images, markup.NewDocLinker(conf.Markup.DocumentURLPattern))
	viewReg, err := views.NewRegistry(conf.Views, markup.Methods(conf.Markup, images))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure views")
	}
	log.Info().Strs("views", viewReg.Names()).Msg("configured result views")

	server := &apiServer{
		conf:     conf,
		store:    store,
		idx:      idx,
		views:    viewReg,
		resolver: resolver,
		renderer: results.NewRenderer(resolver, rep, conf.RenderMaxParallel),
	}

	services := []service{rep, idx, server}
	for _, m := range services {
		m.Start(ctx)
	}

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during service shutdown")
		}
	}
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close SQL database")
	}
	log.Info().Msg("Graceful shutdown completed")
}
