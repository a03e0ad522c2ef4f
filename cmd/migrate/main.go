package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	var schemaFlag string
	flag.StringVar(&schemaFlag, "schema", "db/schema.sql", "path to the schema file to apply")
	flag.Parse()

	_ = godotenv.Load()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	schema, err := os.ReadFile(schemaFlag)
	if err != nil {
		exitWithError(fmt.Errorf("read schema: %w", err))
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("open database: %w", err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		exitWithError(fmt.Errorf("ping database: %w", err))
	}

	if _, err := db.Exec(string(schema)); err != nil {
		exitWithError(fmt.Errorf("apply schema: %w", err))
	}

	fmt.Printf("applied %s\n", schemaFlag)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
