package main

import (
	"log"

	"tekeer/internal/domain/link"
	syncsvc "tekeer/internal/domain/sync"
	"tekeer/internal/infrastructure/crypto"
	"tekeer/internal/infrastructure/postgres"
	"tekeer/internal/infrastructure/provider"
	httphandlers "tekeer/internal/interfaces/http"
	"tekeer/internal/shared/auth"
	"tekeer/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	LinkHandler *httphandlers.LinkHandler
	SyncHandler *httphandlers.SyncHandler
	CardHandler *httphandlers.CardHandler

	// Auth
	JWT *auth.JWT

	// Sync services (for scheduler)
	CardSyncService    *syncsvc.CardSyncService
	ExpenseSyncService *syncsvc.ExpenseSyncService

	// Repositories (for scheduler job provider)
	AccountRepo *postgres.ConnectedAccountRepository
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize field encryptor with the provider's public key
	encryptor, err := crypto.NewEncryptor(cfg.Provider.PublicKey)
	if err != nil {
		return nil, err
	}

	// Initialize provider client
	tokens := provider.NewTokenManager(cfg.Provider.ClientID, cfg.Provider.ClientSecret, cfg.Provider.TokenURL)
	client := provider.NewClient(cfg.Provider.BaseURL, tokens, encryptor, cfg.Provider.RequestsPerSecond)

	// Initialize repositories
	accountRepo := postgres.NewConnectedAccountRepository(db)
	userCardRepo := postgres.NewUserCardRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Initialize domain services
	store := postgres.NewStore(db)
	issuer := link.NewIssuer(client, accountRepo)
	cardSync := syncsvc.NewCardSyncService(client, store)
	expenseSync := syncsvc.NewExpenseSyncService(client, store)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret)

	// Initialize handlers
	linkHandler := httphandlers.NewLinkHandler(issuer)
	syncHandler := httphandlers.NewSyncHandler(cardSync, expenseSync, accountRepo, userRepo)
	cardHandler := httphandlers.NewCardHandler(userCardRepo)

	return &Dependencies{
		DB:                 db,
		LinkHandler:        linkHandler,
		SyncHandler:        syncHandler,
		CardHandler:        cardHandler,
		JWT:                jwt,
		CardSyncService:    cardSync,
		ExpenseSyncService: expenseSync,
		AccountRepo:        accountRepo,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
