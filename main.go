package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-builder-backend/api"
	"github.com/rpupo63/portfolio-builder-backend/auth"
	"github.com/rpupo63/portfolio-builder-backend/config"
	"github.com/rpupo63/portfolio-builder-backend/database"
	"github.com/rpupo63/portfolio-builder-backend/database/memory"
	"github.com/rpupo63/portfolio-builder-backend/models"
	"github.com/rpupo63/portfolio-builder-backend/render"
	"github.com/rpupo63/portfolio-builder-backend/services"
)

// stores is the storage backend selected by DB_TYPE.
type stores struct {
	users      services.UserStore
	portfolios services.PortfolioStore
	projects   services.ProjectStore
	reviews    services.ReviewStore
	ping       func(context.Context) error
	close      func() error
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg := config.New()
	setupLogger(cfg)
	log.Info().Msg("Initializing app...")

	ctx := context.Background()

	if paramPath := config.GetString(cfg, "SSM_PARAMETER_PATH", ""); paramPath != "" {
		store, err := config.NewParameterStore(ctx, config.GetString(cfg, "AWS_REGION", ""))
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating parameter store client")
		}
		loaded, err := config.OverlayParameters(ctx, store, cfg, paramPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", paramPath).Msg("Error loading parameters")
		}
		log.Info().Int("count", loaded).Str("path", paramPath).Msg("Loaded parameters from SSM")
	}

	backend, db, err := openStores(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	defer func() {
		if err := backend.close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	if db != nil {
		// If generating models, run generation and exit
		if config.GetBool(cfg, "GENERATE_MODELS", false) {
			log.Info().Msg("Generating models and query helpers...")
			if err := models.GenerateModels(db, config.GetString(cfg, "GENERATE_MODELS_PATH", "./query")); err != nil {
				log.Fatal().Err(err).Msg("Error generating models")
			}
			return
		}
		if config.GetBool(cfg, "AUTO_MIGRATE", false) {
			if err := models.Migrate(db); err != nil {
				log.Fatal().Err(err).Msg("Error migrating database")
			}
		}
	}

	tokens, err := auth.NewTokenIssuerFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating token issuer")
	}

	limiter, err := newRateLimiter(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to redis")
	}
	defer limiter.Close()

	uploads, err := newUploadService(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating upload presigner")
	}

	renderer, err := render.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Error parsing portfolio templates")
	}

	mailer := services.NewMailerFromConfig(cfg, &http.Client{Timeout: 10 * time.Second})
	if !mailer.Enabled() {
		log.Warn().Msg("RESEND_API_KEY not set, emails are disabled")
	}

	deps := api.Dependencies{
		Users: services.NewUserService(backend.users, tokens, mailer, services.UserServiceOptions{
			ResetPasswordDomain: config.GetString(cfg, "RESET_PASSWORD_EMAIL_DOMAIN", services.DefaultResetPasswordDomain),
			PublicBaseURL:       config.GetString(cfg, "PUBLIC_BASE_URL", ""),
		}),
		Portfolios: services.NewPortfolioService(backend.portfolios, backend.projects, backend.users),
		Projects:   services.NewProjectService(backend.projects),
		Reviews:    services.NewReviewService(backend.reviews),
		Uploads:    uploads,
		Renderer:   renderer,
		Limiter:    limiter,
		Health:     backend.ping,
	}

	// Both the server and the signal listener may send; neither must block.
	errChannel := make(chan error, 2)

	server, err := api.NewServer(cfg, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func setupLogger(cfg map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(cfg, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if config.GetString(cfg, "LOG_FORMAT", "") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
}

// openStores builds the storage backend named by DB_TYPE. The returned gorm
// handle is nil for the memory backend.
func openStores(cfg map[string]string) (stores, *gorm.DB, error) {
	dbType := config.GetString(cfg, "DB_TYPE", "postgres")
	log.Info().Str("dbType", dbType).Msg("Selecting storage backend")

	var dsn string
	switch dbType {
	case "memory":
		log.Warn().Msg("Using the in-memory store, data is lost on restart")
		store := memory.New()
		return stores{
			users:      store.UserRepo(),
			portfolios: store.PortfolioRepo(),
			projects:   store.ProjectRepo(),
			reviews:    store.ReviewRepo(),
			ping:       store.Ping,
			close:      func() error { return nil },
		}, nil, nil
	case "postgres":
		dsn = config.GetString(cfg, "DATABASE_URL", "")
		if dsn == "" {
			return stores{}, nil, fmt.Errorf("DATABASE_URL is required when DB_TYPE=postgres")
		}
	case "supa":
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(cfg, "SUPABASE_DB_HOST", ""),
			config.GetString(cfg, "SUPABASE_DB_USER", ""),
			config.GetString(cfg, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(cfg, "SUPABASE_DB_NAME", ""),
			config.GetString(cfg, "SUPABASE_DB_PORT", "5432"),
		)
		log.Info().Msg("Connecting to Supabase database...")
	default:
		return stores{}, nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}

	db, err := database.Open(database.Options{
		DSN:          dsn,
		ReplicaDSNs:  config.GetList(cfg, "DB_REPLICA_DSN"),
		MaxOpenConns: config.GetInt(cfg, "DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns: config.GetInt(cfg, "DB_MAX_IDLE_CONNS", 5),
	})
	if err != nil {
		return stores{}, nil, err
	}

	// Enable required PostgreSQL extensions
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return stores{}, nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	currentDB := database.New(db)
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := currentDB.Ping(pingCtx); err != nil {
		return stores{}, nil, fmt.Errorf("test database connection: %w", err)
	}

	return stores{
		users:      currentDB.UserRepo(),
		portfolios: currentDB.PortfolioRepo(),
		projects:   currentDB.ProjectRepo(),
		reviews:    currentDB.ReviewRepo(),
		ping:       currentDB.Ping,
		close:      currentDB.Close,
	}, db, nil
}

// newRateLimiter shares limits through Redis when REDIS_ADDR is set.
func newRateLimiter(ctx context.Context, cfg map[string]string) (api.RateLimiter, error) {
	addr := config.GetString(cfg, "REDIS_ADDR", "")
	if addr == "" {
		return api.NewMemoryRateLimiter(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.GetString(cfg, "REDIS_PASSWORD", ""),
		DB:       config.GetInt(cfg, "REDIS_DB", 0),
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	log.Info().Str("addr", addr).Msg("Rate limiting through redis")
	return api.NewRedisRateLimiter(client), nil
}

func newUploadService(ctx context.Context, cfg map[string]string) (*services.UploadService, error) {
	bucket := config.GetString(cfg, "S3_BUCKET", "")
	if bucket == "" {
		log.Warn().Msg("S3_BUCKET not set, uploads are disabled")
		return services.NewUploadService(nil, "", ""), nil
	}

	opts := services.S3Options{
		Bucket:        bucket,
		Region:        config.GetString(cfg, "S3_REGION", "us-east-1"),
		BaseEndpoint:  config.GetString(cfg, "S3_BASE_ENDPOINT", ""),
		AccessKey:     config.GetString(cfg, "S3_ACCESS_KEY", ""),
		SecretKey:     config.GetString(cfg, "S3_SECRET_KEY", ""),
		PublicBaseURL: config.GetString(cfg, "S3_PUBLIC_BASE_URL", ""),
	}
	presigner, err := services.NewS3Presigner(ctx, opts)
	if err != nil {
		return nil, err
	}
	return services.NewUploadService(presigner, opts.Bucket, opts.PublicBaseURL), nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
