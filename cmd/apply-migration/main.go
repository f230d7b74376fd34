package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	commoncfg "rainpath-cases/common/config"
	"rainpath-cases/common/database"
	"rainpath-cases/internal/config"
	"rainpath-cases/internal/repository"
)

// Usage: apply-migration [migration_file.sql]
// Without a file the built-in case schema for DB_DRIVER is applied.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var (
		db  *sql.DB
		err error
	)
	switch cfg.Database.Driver {
	case commoncfg.DriverPostgres:
		db, err = database.NewPostgresDB(ctx, &cfg.Database)
	case commoncfg.DriverSQLite:
		db, err = database.NewSQLiteDB(cfg.Database.SQLitePath)
	default:
		log.Fatalf("Nothing to migrate for DB_DRIVER=%q", cfg.Database.Driver)
	}
	if err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}
	defer db.Close()

	fmt.Printf("Connected to %s database\n\n", cfg.Database.Driver)

	var statements []string
	if len(os.Args) > 1 {
		content, err := os.ReadFile(os.Args[1])
		if err != nil {
			log.Fatalf("Failed to read migration file: %v", err)
		}
		statements = splitStatements(string(content))
	} else {
		statements, err = repository.SchemaStatements(cfg.Database.Driver)
		if err != nil {
			log.Fatalf("No built-in schema: %v", err)
		}
	}

	for i, stmt := range statements {
		fmt.Printf("Executing statement %d/%d...\n", i+1, len(statements))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("Failed to execute statement %d: %v\nStatement: %s", i+1, err, stmt[:min(100, len(stmt))])
		}
	}

	fmt.Println("Migration completed successfully")
}

// splitStatements splits on ";" and drops blank and comment-only chunks.
func splitStatements(content string) []string {
	var out []string
	for _, chunk := range strings.Split(content, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
