package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/satriohq/blognest-api/config"
	"github.com/satriohq/blognest-api/internal/domain/entity"
	"github.com/satriohq/blognest-api/pkg/helpers"
)

// Seeds a local admin account for development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@blognest.local"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (first_name, last_name, email, password_hash, avatar_url, role, is_admin, password_changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, now() - interval '2 seconds')
		ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role, is_admin = true
		RETURNING id
	`, "Admin", "User", email, hash, entity.DefaultAvatarURL, entity.RoleAdmin).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", id, email, password)
}
