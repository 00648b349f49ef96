package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"grantforge/internal/gateway/config"
	"grantforge/internal/gateway/handler"
	"grantforge/internal/gateway/repository/docstore"
	"grantforge/internal/gateway/server"
	"grantforge/internal/outline"
	"grantforge/internal/proposal"
)

type App struct {
	server *server.Server
	closer func() error
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Dependencies
	docs := docstore.NewFromEnv(cfg.DocStorePath)
	attachments := initAttachmentStore(cfg)

	client, err := newProviderClient(cfg.Provider)
	if err != nil {
		return nil, err
	}

	templates, err := outline.LoadCatalog(cfg.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("load template catalog: %w", err)
	}
	partners, err := proposal.LoadPartners(cfg.PartnersPath)
	if err != nil {
		return nil, fmt.Errorf("load partner catalog: %w", err)
	}
	chunks, err := proposal.LoadChunks(cfg.KnowledgePath)
	if err != nil {
		return nil, fmt.Errorf("load knowledge catalog: %w", err)
	}
	log.Printf("catalogs: %d partners, %d knowledge chunks, templates %v",
		len(partners), len(chunks), templates.IDs())

	deps := proposal.Deps{
		Generate:    client.GenerateText,
		GetDocument: docs.Get,
		PutDocument: docs.Put,
		Partners: func(context.Context) ([]proposal.Partner, error) {
			return partners, nil
		},
		Chunks: func(context.Context) ([]proposal.KnowledgeChunk, error) {
			return chunks, nil
		},
		Template: templates.Get,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}

	// Routing & Server
	h := handler.New(docs, attachments, templates, deps, client.Name())
	mux := server.NewMux(h)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		closer: client.Close,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.closer != nil {
		defer func() { _ = a.closer() }()
	}
	return a.server.Shutdown(ctx)
}
