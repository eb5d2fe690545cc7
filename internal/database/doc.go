// Package database owns the SQLite file behind the book catalogue.
//
// # Lifecycle
//
// A Helper is constructed explicitly and injected into the gateway; nothing
// is opened on first use:
//
//	helper := database.NewHelper("./books.db", database.Options{})
//	if err := helper.Open(ctx); err != nil { ... }
//	defer helper.Close()
//
// Open creates parent directories and the file, runs SQLCreateBooksTable
// exactly once per fresh file and stamps the schema version with
// PRAGMA user_version.
//
// # Schema Versions
//
// The current schema is Version 1 and has no upgrade steps. Future versions
// register one Migration per (From, To) pair:
//
//	database.Options{
//		Version: 2,
//		Migrations: map[database.MigrationKey]database.Migration{
//			{From: 1, To: 2}: func(tx *gorm.DB) error { ... },
//		},
//	}
//
// Opening an older file without a step for every transition fails with
// ErrMissingMigration. Opening a newer file fails with ErrDowngrade.
//
// # Concurrency
//
// Write serializes writers with a mutex and runs each in a transaction.
// Readable hands out the shared pool; the file is opened in WAL mode so
// readers run concurrently and never see a half-applied write.
package database
