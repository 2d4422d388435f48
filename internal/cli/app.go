package cli

import (
	"context"

	"invoicedesk/internal/config"
	appctx "invoicedesk/internal/core/context"
	"invoicedesk/internal/domain/auth"
	"invoicedesk/internal/domain/documents"
	"invoicedesk/internal/domain/navigation"
	"invoicedesk/internal/infrastructure/storage"
	"invoicedesk/pkg/logger"
)

// app is the set of services one command invocation works with.
type app struct {
	res       *storage.Resources
	documents *documents.Service
	auth      *auth.Service
	navigator *navigation.Navigator
}

func (a *app) Close() {
	a.res.Close()
}

// loadConfig reads the server environment and applies flag overrides.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg := config.Parse()
	if opts.Backend != "" {
		cfg.Storage.Backend = config.StorageBackend(opts.Backend)
	}
	if opts.Dir != "" {
		cfg.Storage.Dir = opts.Dir
	}
	if opts.Strict {
		cfg.Storage.StrictDecoding = true
	}
	return cfg, cfg.Validate()
}

// commandContext attaches the CLI logger and origin to ctx.
func commandContext(ctx context.Context, opts *RootOptions) (context.Context, error) {
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{
		Level:       level,
		Development: true,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogger(ctx, log)
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext())
	return appctx.WithOrigin(ctx, appctx.OriginCLI), nil
}

func openApp(ctx context.Context, opts *RootOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	res, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	hash, err := cfg.Admin.Hash()
	if err != nil {
		res.Close()
		return nil, err
	}

	authService := auth.NewService(auth.NewFlagStore(res.Area), auth.ServiceConfig{
		Username:     cfg.Admin.Username,
		PasswordHash: hash,
	})

	return &app{
		res: res,
		documents: documents.NewService(documents.ServiceConfig{
			Area:           res.Area,
			StrictDecoding: cfg.Storage.StrictDecoding,
		}),
		auth:      authService,
		navigator: navigation.NewNavigator(navigation.DefaultTable(), authService, nil),
	}, nil
}
