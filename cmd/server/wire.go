// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"localpro_backend/internal/activity"
	"localpro_backend/internal/app"
	"localpro_backend/internal/auth"
	"localpro_backend/internal/catalog"
	"localpro_backend/internal/config"
	"localpro_backend/internal/customer"
	"localpro_backend/internal/jobs"
	"localpro_backend/internal/mail"
	"localpro_backend/internal/platform/elasticsearch"
	"localpro_backend/internal/platform/logger"
	"localpro_backend/internal/provider"
	"localpro_backend/internal/shared"
	"localpro_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		provideDatabase,
		elasticsearch.NewClient,
		provideFileStorage,
		provideCleanup,

		// Auth plumbing
		auth.NewJWTService,
		auth.NewCachedVersionChecker,
		wire.Bind(new(shared.TokenVersionChecker), new(*auth.CachedVersionChecker)),
		mail.NewSender,

		// Repositories
		user.NewGORMRepository,
		activity.NewGORMRepository,
		provider.NewGORMRepository,
		catalog.NewGORMRepository,
		customer.NewGORMRepository,

		// Services
		activity.NewService,
		auth.NewService,
		provideServiceCounter,
		provideUserFlagger,
		provider.NewSearchIndexer,
		provider.NewService,
		catalog.NewManager,
		customer.NewService,

		// Handlers
		auth.NewHandler,
		provider.NewHandler,
		catalog.NewHandler,
		customer.NewHandler,

		// Jobs
		jobs.NewTokenCleanupJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
