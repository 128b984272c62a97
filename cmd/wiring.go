package cmd

import (
	"fmt"

	"github.com/Billy-Davies-2/draftkit/internal/advisor"
	"github.com/Billy-Davies-2/draftkit/internal/auth"
	"github.com/Billy-Davies-2/draftkit/internal/config"
	"github.com/Billy-Davies-2/draftkit/internal/dal"
	"github.com/Billy-Davies-2/draftkit/internal/draft"
	"github.com/Billy-Davies-2/draftkit/internal/engine"
	"github.com/Billy-Davies-2/draftkit/internal/logger"
	"github.com/Billy-Davies-2/draftkit/internal/pubsub"
)

// openStore opens the configured draft store
func openStore(c *config.Config) (dal.DraftDAL, error) {
	switch c.DBDriver {
	case "sqlite":
		store, err := dal.NewSQLiteDAL(c.SQLiteFile, c.League.Rounds)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
		}
		logger.Info("Connected to SQLite database", "file", c.SQLiteFile)
		return store, nil
	case "postgres":
		store, err := dal.NewPostgresDAL(c.DatabaseURL, c.League.Rounds)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		logger.Info("Connected to Postgres database")
		return store, nil
	default:
		logger.Info("Using in-memory data store")
		return dal.NewMemoryDAL(c.League.Rounds), nil
	}
}

// serviceOptions converts configuration into league rules
func serviceOptions(c *config.Config) draft.Options {
	opts := draft.Options{
		AutoDraft:  c.AutoDraftModel(),
		Keepers:    c.KeeperModel(),
		Thresholds: c.Analytics,
	}
	if c.Advisor.Enabled {
		opts.Advisor = advisor.NewOllamaAdvisor(&advisor.OllamaConfig{
			BaseURL:        c.Advisor.BaseURL,
			Model:          c.Advisor.Model,
			RequestTimeout: c.AutoDraft.AdvisorTimeout,
			RateLimit:      c.Advisor.RateLimit,
		})
		logger.Info("Auto-pick advisor enabled", "model", c.Advisor.Model, "url", c.Advisor.BaseURL)
	}
	return opts
}

// newService builds the draft service. A nil bus makes the service invalidate
// its own session.
func newService(c *config.Config, store dal.DraftDAL, bus draft.Publisher, session *engine.Session) (*draft.Service, error) {
	return draft.NewService(store, bus, session, serviceOptions(c))
}

// openCLIService opens the store and a bus-less service for one-shot commands
func openCLIService() (*draft.Service, func(), error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	svc, err := newService(cfg, store, nil, nil)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return svc, func() { _ = store.Close() }, nil
}

// natsBus is the upstream event bus together with its health and shutdown hooks
type natsBus interface {
	pubsub.Upstream
	Healthy() bool
	Close()
}

// openBus starts embedded NATS in development and connects to NATS otherwise
func openBus(c *config.Config) (natsBus, error) {
	if c.IsDevelopment() {
		logger.Info("Starting embedded NATS server for local development")
		opts := pubsub.DefaultEmbeddedNATSOptions()
		opts.Subject = c.NATSSubject
		embedded, err := pubsub.NewEmbeddedNATSPubSub(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedded NATS: %w", err)
		}
		logger.Info("Embedded NATS server ready", "url", embedded.ServerURL())
		return embedded, nil
	}

	remote, err := pubsub.NewNATSPubSub(c.NATSURL, c.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NATS: %w", err)
	}
	logger.Info("Connected to NATS", "url", c.NATSURL)
	return remote, nil
}

// newAuthProvider uses mock auth unless Authentik is configured
func newAuthProvider(c *config.Config) auth.AuthProvider {
	if c.Auth.Provider != "authentik" {
		logger.Info("Using mock authentication (no Authentik server required)")
		return auth.NewMockAuth(c.Auth.AdminGroup)
	}
	logger.Info("Using Authentik authentication", "url", c.Auth.BaseURL)
	return auth.NewAuthentikAuth(&auth.AuthentikConfig{
		BaseURL:      c.Auth.BaseURL,
		ClientID:     c.Auth.ClientID,
		ClientSecret: c.Auth.ClientSecret,
		RedirectURL:  c.Auth.RedirectURL,
		AppSlug:      c.Auth.AppSlug,
		Scopes:       []string{"openid", "profile", "email"},
	})
}
