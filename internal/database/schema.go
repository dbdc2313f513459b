package database

import (
	"context"
	"database/sql"

	"github.com/juju/errors"
)

// The persisted layout. The unique keys on access.name and
// user_access(user_id, access_id) are what the repositories rely on to
// reject duplicate capabilities and duplicate grants.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(255) NOT NULL,
		last_name VARCHAR(255) NOT NULL,
		banner_id INT UNSIGNED NOT NULL,
		email VARCHAR(255) NULL,
		password_hash VARCHAR(255) NULL,
		UNIQUE KEY uq_users_banner_id (banner_id)
	)`,
	`CREATE TABLE IF NOT EXISTS access (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		permission_level VARCHAR(255) NULL,
		UNIQUE KEY uq_access_name (name)
	)`,
	`CREATE TABLE IF NOT EXISTS user_access (
		permission_id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		access_id BIGINT UNSIGNED NOT NULL,
		permission_level VARCHAR(255) NULL,
		UNIQUE KEY uq_user_access_pair (user_id, access_id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (access_id) REFERENCES access(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS chemicals (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		formula VARCHAR(255) NULL,
		storage_location VARCHAR(255) NULL,
		UNIQUE KEY uq_chemicals_name (name)
	)`,
	`CREATE TABLE IF NOT EXISTS question_categories (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		category_id BIGINT UNSIGNED NOT NULL,
		title VARCHAR(1024) NOT NULL,
		correct_answer VARCHAR(1024) NOT NULL,
		incorrect_answer_1 VARCHAR(1024) NOT NULL,
		incorrect_answer_2 VARCHAR(1024) NOT NULL,
		incorrect_answer_3 VARCHAR(1024) NOT NULL,
		FOREIGN KEY (category_id) REFERENCES question_categories(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		banner_id INTEGER NOT NULL UNIQUE,
		email TEXT NULL,
		password_hash TEXT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS access (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		permission_level TEXT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_access (
		permission_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		access_id INTEGER NOT NULL REFERENCES access(id) ON DELETE CASCADE,
		permission_level TEXT NULL,
		UNIQUE (user_id, access_id)
	)`,
	`CREATE TABLE IF NOT EXISTS chemicals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		formula TEXT NULL,
		storage_location TEXT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS question_categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category_id INTEGER NOT NULL REFERENCES question_categories(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		incorrect_answer_1 TEXT NOT NULL,
		incorrect_answer_2 TEXT NOT NULL,
		incorrect_answer_3 TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// EnsureSchema creates any missing tables for the given driver.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	stmts := mysqlSchema
	if driver == DriverSQLite {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Annotate(err, "creating schema")
		}
	}
	return nil
}
