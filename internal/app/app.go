package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/woowtech/odoogate/internal/common"
	"github.com/woowtech/odoogate/internal/handlers"
	"github.com/woowtech/odoogate/internal/interfaces"
	"github.com/woowtech/odoogate/internal/odoorpc"
	"github.com/woowtech/odoogate/internal/services/account"
	"github.com/woowtech/odoogate/internal/services/events"
	"github.com/woowtech/odoogate/internal/services/session"
	"github.com/woowtech/odoogate/internal/services/settings"
	badgerstore "github.com/woowtech/odoogate/internal/storage/badger"
	"github.com/woowtech/odoogate/internal/storage/secrets"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	DB          *badgerstore.BadgerDB
	SecretStore *secrets.Store

	// Services
	OdooClient      interfaces.OdooClient
	EventService    interfaces.EventService
	AccountService  *account.Service
	SettingsService *settings.Service
	Refresher       *session.Refresher

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	AuthHandler     *handlers.AuthHandler
	ProfileHandler  *handlers.ProfileHandler
	SettingsHandler *handlers.SettingsHandler
	WSHandler       *handlers.WebSocketHandler
}

// New creates the application with all dependencies wired
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	// Storage layer
	db, err := badgerstore.NewBadgerDB(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to open account database: %w", err)
	}
	a.DB = db

	secretStore, err := secrets.NewStore(&cfg.Storage.Secrets, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open secret store: %w", err)
	}
	a.SecretStore = secretStore

	accountStorage := badgerstore.NewAccountStorage(db, logger)

	// RPC client
	a.OdooClient = odoorpc.NewClient(
		odoorpc.WithTimeout(cfg.Odoo.RequestTimeout),
		odoorpc.WithRateLimit(cfg.Odoo.RateLimit),
		odoorpc.WithLogger(logger),
	)

	// Services
	a.EventService = events.NewService(logger)
	a.AccountService = account.NewService(a.OdooClient, accountStorage, secretStore, a.EventService, logger)
	a.SettingsService = settings.NewService(secretStore, logger)
	a.Refresher = session.NewRefresher(a.AccountService, logger)

	// HTTP handlers
	a.APIHandler = handlers.NewAPIHandler()
	a.AuthHandler = handlers.NewAuthHandler(a.AccountService, logger)
	a.ProfileHandler = handlers.NewProfileHandler(a.AccountService, logger)
	a.SettingsHandler = handlers.NewSettingsHandler(a.SettingsService, logger)
	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, logger)

	logger.Info().Msg("Application initialized")

	return a, nil
}

// Start begins background services
func (a *App) Start() error {
	if a.Config.Session.RefreshEnabled {
		if err := a.Refresher.Start(a.Config.Session.RefreshSchedule); err != nil {
			return fmt.Errorf("failed to start session refresher: %w", err)
		}
	}
	return nil
}

// Close shuts down background services and storage
func (a *App) Close() error {
	if a.Refresher != nil {
		a.Refresher.Stop()
	}

	var firstErr error
	if a.SecretStore != nil {
		if err := a.SecretStore.Close(); err != nil {
			firstErr = err
			a.Logger.Warn().Err(err).Msg("Failed to close secret store")
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			a.Logger.Warn().Err(err).Msg("Failed to close account database")
		}
	}

	return firstErr
}
