// @title                       Pet Marketplace API
// @version                     1.0
// @description                 Marketplace and booking backend: sellers list products and pets, customers book vets, admins manage users.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	_ "github.com/pawmarket/marketplace-api/docs"
	"github.com/pawmarket/marketplace-api/internal/api"
	"github.com/pawmarket/marketplace-api/internal/api/handler"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
	"github.com/pawmarket/marketplace-api/internal/core/service"
	"github.com/pawmarket/marketplace-api/internal/core/token"
	"github.com/pawmarket/marketplace-api/internal/infrastructure/db/memory"
	mongodb "github.com/pawmarket/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/pawmarket/marketplace-api/internal/infrastructure/db/redis"
	"github.com/pawmarket/marketplace-api/internal/infrastructure/queue"
	"github.com/pawmarket/marketplace-api/internal/pkg/config"
	"github.com/pawmarket/marketplace-api/pkg/logger"
)

// storage is the set of adapters the services are built on.
type storage struct {
	users        ports.UserRepository
	products     ports.ProductRepository
	pets         ports.PetRepository
	appointments ports.AppointmentRepository
	audit        ports.AuditRepository
	revocations  ports.RevocationStore
	health       map[string]handler.Pinger
	close        func(context.Context)
}

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "marketplace-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("storage init failed")
	}
	defer store.close(context.Background())

	// --- Audit pipeline ---
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcher := queue.NewAuditDispatcher(cfg.AuditWorkers, store.audit, log)
	dispatcher.Start(dispatcherCtx)

	// --- Services ---
	issuer := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	authService := service.NewAuthService(store.users, issuer, cfg.JWT.BcryptCost, log)

	if cfg.Admin.Enabled() {
		admin, err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("admin bootstrap failed")
		}
		log.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("admin account ready")
	}

	e := api.NewRouter(api.Dependencies{
		Auth:         authService,
		Products:     service.NewProductService(store.products, dispatcher, log),
		Pets:         service.NewPetService(store.pets, dispatcher, log),
		Appointments: service.NewAppointmentService(store.appointments, store.users, dispatcher, log),
		Users: service.NewUserService(service.UserServiceDeps{
			Users:        store.users,
			Products:     store.products,
			Pets:         store.pets,
			Appointments: store.appointments,
			Revocations:  store.revocations,
			Audit:        dispatcher,
			RevokeTTL:    issuer.TTL(),
		}, log),
		Verifier:    issuer,
		Revocations: store.revocations,
		Health:      store.health,
		Registerer:  prometheus.DefaultRegisterer,
		Gatherer:    prometheus.DefaultGatherer,
		Log:         log,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Str("env", cfg.Env).Msg("marketplace api listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}

	// Requests are drained; flush the audit queue before closing storage.
	stopDispatcher()
	dispatcher.Wait()
	log.Info().Msg("server exited")
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		mem := memory.New()
		return &storage{
			users:        mem.Users(),
			products:     mem.Products(),
			pets:         mem.Pets(),
			appointments: mem.Appointments(),
			audit:        mem.Audit(),
			revocations:  mem.Revocations(),
			health:       map[string]handler.Pinger{},
			close:        func(context.Context) {},
		}, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}

	repos := mongodb.NewRepositories(db)
	if err := repos.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.Info().Str("database", cfg.Mongo.Database).Str("redis", cfg.Redis.Addr).Msg("storage connected")
	return &storage{
		users:        repos.Users,
		products:     repos.Products,
		pets:         repos.Pets,
		appointments: repos.Appointments,
		audit:        repos.Audit,
		revocations:  redisdb.NewRevocationList(rdb),
		health: map[string]handler.Pinger{
			"mongodb": mongodb.Pinger{DB: db},
			"redis":   redisdb.Pinger{Client: rdb},
		},
		close: func(ctx context.Context) {
			_ = rdb.Close()
			_ = client.Disconnect(ctx)
		},
	}, nil
}
