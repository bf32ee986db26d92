package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// NewDB creates a new MySQL database connection pool with the given DSN.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		slog.Warn("database ping failed — continuing without DB", "error", err)
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		role VARCHAR(20) NOT NULL DEFAULT 'user',
		password_hash VARCHAR(255) NOT NULL,
		reset_token_hash VARCHAR(64) NOT NULL DEFAULT '',
		reset_token_expiry DATETIME NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS bootcamps (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		name VARCHAR(50) NOT NULL UNIQUE,
		slug VARCHAR(60) NOT NULL,
		description VARCHAR(500) NOT NULL,
		website VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(20) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		latitude DOUBLE NULL,
		longitude DOUBLE NULL,
		formatted_address VARCHAR(255) NOT NULL DEFAULT '',
		street VARCHAR(255) NOT NULL DEFAULT '',
		city VARCHAR(100) NOT NULL DEFAULT '',
		state VARCHAR(100) NOT NULL DEFAULT '',
		zipcode VARCHAR(20) NOT NULL DEFAULT '',
		country VARCHAR(10) NOT NULL DEFAULT '',
		careers JSON NOT NULL,
		average_cost BIGINT NULL,
		photo VARCHAR(255) NOT NULL DEFAULT 'no-photo.jpg',
		housing BOOLEAN NOT NULL DEFAULT FALSE,
		job_assistance BOOLEAN NOT NULL DEFAULT FALSE,
		job_guarantee BOOLEAN NOT NULL DEFAULT FALSE,
		accept_gi BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_bootcamps_user (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		bootcamp_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		title VARCHAR(100) NOT NULL,
		description TEXT NOT NULL,
		weeks VARCHAR(10) NOT NULL,
		tuition BIGINT NOT NULL,
		minimum_skill VARCHAR(20) NOT NULL,
		scholarship_available BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_courses_bootcamp (bootcamp_id),
		INDEX idx_courses_user (user_id)
	)`,
}

// InitSchema creates the tables if they do not exist yet.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
