package models

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Portfolio{},
		&Project{},
		&Review{},
	}
}

// Migrate creates or updates the tables and indexes, including the unique
// owner index on portfolios.
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
		Logger:                 db.Logger.LogMode(logger.Warn),
	})

	log.Info().Int("models", len(All())).Msg("Migrating models")
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info().Msg("Database migration completed")
	return nil
}

// GenerateModels migrates the schema and writes typed query helpers for every
// model into outPath.
func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return err
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)
	g.Execute()

	log.Info().Str("outPath", outPath).Msg("Model generation complete")
	return nil
}
