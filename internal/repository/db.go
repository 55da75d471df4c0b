package repository

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/config"
	"agro-order-service/internal/model"
)

// OpenSQL abre la base relacional. DATABASE_URL tiene prioridad y fuerza postgres;
// si no hay, se usa el driver configurado (sqlite por defecto).
func OpenSQL(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch {
	case cfg.DatabaseURL != "":
		dialector = postgres.Open(cfg.DatabaseURL)
	case cfg.SQLDriver == "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("SQL_DRIVER %q requiere DATABASE_URL", cfg.SQLDriver)
	}
	return open(dialector, 0)
}

// OpenSQLite abre una base sqlite (":memory:" en tests).
// Con una sola conexión: cada conexión a :memory: es una base distinta.
func OpenSQLite(path string) (*gorm.DB, error) {
	return open(sqlite.Open(path), 1)
}

func open(d gorm.Dialector, maxConns int) (*gorm.DB, error) {
	db, err := gorm.Open(d, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(maxConns)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Quotation{},
		&model.Listing{},
		&model.Message{},
		&model.Profile{},
		&model.Subscriber{},
	)
}

// gormErr traduce errores de gorm a la taxonomía del servicio.
func gormErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s no encontrado", apperr.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s ya existe", apperr.ErrConflict, what)
	}
	return fmt.Errorf("%w: %s: %v", apperr.ErrPersistence, what, err)
}
