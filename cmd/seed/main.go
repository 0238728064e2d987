package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"usergate/internal/auth"
	"usergate/internal/config"
	"usergate/internal/db"
	apperrors "usergate/internal/errors"
	"usergate/internal/logging"
	"usergate/internal/repository"
	"usergate/internal/service"
)

// SeedUser is one entry of the seed document.
type SeedUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func main() {
	source := flag.String("source", "users.json", "JSON file path or http(s) URL with [{username, password}]")
	flag.Parse()

	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database ready")

	log.Printf("Reading users from: %s", *source)
	users, err := loadSeedUsers(*source)
	if err != nil {
		log.Fatalf("Failed to load users: %v", err)
	}
	log.Printf("Loaded %d users", len(users))

	userService := service.NewUserService(
		repository.NewUserRepository(gormDB),
		auth.NewBcryptHasher(cfg.HashWorkers),
		nil,
		logging.New(os.Stderr, cfg.LogLevel),
	)

	created, skipped, err := seedUsers(context.Background(), userService, users)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Skipped (existing or invalid): %d", skipped)
}

// loadSeedUsers reads the seed document from a file or an http(s) URL.
func loadSeedUsers(source string) ([]SeedUser, error) {
	var body []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = fetch(source)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	var users []SeedUser
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return users, nil
}

func fetch(url string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("URL returned status code: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// seedUsers creates regular accounts, skipping taken usernames and entries
// missing a field. Any other error stops the run.
func seedUsers(ctx context.Context, svc service.UserService, users []SeedUser) (created int, skipped int, err error) {
	for _, u := range users {
		_, err := svc.CreateUser(ctx, u.Username, u.Password)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrUserAlreadyExists), errors.Is(err, apperrors.ErrValidation):
			log.Printf("Skipping user %q: %v", u.Username, err)
			skipped++
		default:
			return created, skipped, fmt.Errorf("error creating user %q: %w", u.Username, err)
		}
	}
	return created, skipped, nil
}
