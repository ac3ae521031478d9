package database

import (
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"marketplace-service/config"
)

var DB *sqlx.DB

func InitDB(cfg *config.Config) error {
	db, err := sqlx.Connect("mysql", cfg.DatabaseDSN())
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	DB = db
	return nil
}

func CloseDB() {
	if DB != nil {
		_ = DB.Close()
	}
}
