// Package data persists emitted score records in a local sqlite database.
package data

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

const (
	DataFileName = "history.db"
)

var (
	//go:embed sql/*
	f embed.FS

	errDBNotInitialized = errors.New("database not initialized")
)

// Init creates the schema in the database at dbFilePath. It is safe to
// call on an existing database.
func Init(dbFilePath string) error {
	if dbFilePath == "" {
		return errors.New("dbFilePath not specified")
	}

	db, err := GetDB(dbFilePath)
	if err != nil {
		return fmt.Errorf("error opening database: %s: %w", dbFilePath, err)
	}
	defer db.Close()

	slog.Debug("applying db schema", "path", dbFilePath)
	b, err := f.ReadFile("sql/ddl.sql")
	if err != nil {
		return fmt.Errorf("failed to read the schema creation file: %w", err)
	}
	if _, err := db.Exec(string(b)); err != nil {
		return fmt.Errorf("failed to create database schema in: %s: %w", dbFilePath, err)
	}
	return nil
}

func GetDB(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %s: %w", path, err)
	}
	return conn, nil
}

// Open initializes the database at path and returns a connection.
func Open(path string) (*sql.DB, error) {
	if err := Init(path); err != nil {
		return nil, err
	}
	return GetDB(path)
}
