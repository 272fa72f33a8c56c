package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	db            *gorm.DB
	userRepo      *UserRepo
	portfolioRepo *PortfolioRepo
	projectRepo   *ProjectRepo
	reviewRepo    *ReviewRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:            db,
		userRepo:      NewUserRepo(db),
		portfolioRepo: NewPortfolioRepo(db),
		projectRepo:   NewProjectRepo(db),
		reviewRepo:    NewReviewRepo(db),
	}
}

// Options configures Open.
type Options struct {
	DSN          string
	ReplicaDSNs  []string
	MaxOpenConns int
	MaxIdleConns int
	SlowQuery    time.Duration
}

// Open connects to Postgres. Replica DSNs, when present, serve reads through
// dbresolver while writes stay on the primary.
func Open(opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  opts.DSN,
		PreferSimpleProtocol: true,
	}), gormConfig(opts.SlowQuery))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if len(opts.ReplicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(opts.ReplicaDSNs))
		for _, dsn := range opts.ReplicaDSNs {
			replicas = append(replicas, postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// gormConfig translates driver errors into gorm sentinels, so a unique index
// violation surfaces as gorm.ErrDuplicatedKey.
func gormConfig(slow time.Duration) *gorm.Config {
	if slow == 0 {
		slow = 10 * time.Second
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             slow,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	return &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) PortfolioRepo() *PortfolioRepo {
	return d.portfolioRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ReviewRepo() *ReviewRepo {
	return d.reviewRepo
}

// Ping checks the primary connection.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
