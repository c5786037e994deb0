// Package server initializes and runs the CSE Manager backend: it loads the
// configuration, opens and migrates PostgreSQL, builds the services and runs
// the REST API next to the gRPC health endpoint until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/csemanager/internal/logging"
	"github.com/dmitrijs2005/csemanager/internal/server/auth"
	"github.com/dmitrijs2005/csemanager/internal/server/config"
	"github.com/dmitrijs2005/csemanager/internal/server/httpapi"
	"github.com/dmitrijs2005/csemanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/csemanager/internal/server/services"
	"github.com/dmitrijs2005/csemanager/internal/server/storage"

	gs "github.com/dmitrijs2005/csemanager/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	httpServer  *httpapi.Server
	grpcServer  *gs.GRPCServer
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret: []byte(c.JWTSecret),
		TTL:    c.TokenTTL,
		Issuer: c.JWTIssuer,
	}, nil)

	store := storage.NewS3Store(storage.S3Config{
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})

	svc := httpapi.Services{
		Auth: services.NewUserService(db, rm, auth.NewBcryptHasher(c.BcryptCost), tokens,
			auth.NewRegistrationGate(c.RegistrationSecret)),
		Clients:     services.NewClientService(db, rm),
		Tasks:       services.NewTaskService(db, rm),
		Attachments: services.NewAttachmentService(db, rm, store),
	}

	if c.RegistrationSecret == "" {
		logger.Warn(context.Background(), "registration secret is empty, registration is disabled")
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		httpServer:  httpapi.NewServer(httpapi.Config{Address: c.HTTPAddr, CORSOrigins: c.CORSOrigins}, svc, logger),
		grpcServer:  gs.NewGRPCServer(c.GRPCAddr, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// prepareDB checks connectivity and applies migrations.
func (app *App) prepareDB(ctx context.Context) error {
	if err := app.db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping error: %w", err)
	}
	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err.Error())
		}
	}()

	if err := app.prepareDB(ctx); err != nil {
		return err
	}

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	app.grpcServer.SetServing(true)

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
	return nil
}
