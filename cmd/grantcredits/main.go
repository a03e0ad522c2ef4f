package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"aivenger/internal/adapter/repo"
	"aivenger/internal/domain"
)

func main() {
	var (
		idFlag     string
		emailFlag  string
		amountFlag int
	)

	flag.StringVar(&idFlag, "id", "", "user ID to top up")
	flag.StringVar(&emailFlag, "email", "", "user email to top up")
	flag.IntVar(&amountFlag, "amount", domain.GenerationCost, "credits to add")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)

	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	if amountFlag <= 0 {
		exitWithError(errors.New("-amount must be positive"))
	}

	_ = godotenv.Load()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	users := repo.NewUserRepository(pool)
	if userID == "" {
		user, err := users.GetByEmail(ctx, email)
		if err != nil {
			exitWithError(fmt.Errorf("lookup user by email: %w", err))
		}
		userID = user.ID
	}

	total, err := users.GrantCredits(ctx, userID, amountFlag)
	if err != nil {
		exitWithError(fmt.Errorf("grant credits: %w", err))
	}

	fmt.Printf("user %s credited %d, balance now %d\n", userID, amountFlag, total)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
