// Command create-admin bootstraps the first admin account from the
// command line, since account creation over HTTP requires an existing
// super admin.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hafizkhan902/portfolio-backend/config"
	"github.com/hafizkhan902/portfolio-backend/internal/admins"
	"github.com/hafizkhan902/portfolio-backend/internal/bootstrap"
	"github.com/hafizkhan902/portfolio-backend/internal/storage/postgres"
)

func main() {
	username := flag.String("username", "", "admin username")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (min 8 characters)")
	role := flag.String("role", admins.RoleSuperAdmin, "admin or super_admin")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}
	if len(*password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}
	if *role != admins.RoleAdmin && *role != admins.RoleSuperAdmin {
		log.Fatalf("invalid role %q", *role)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := bootstrap.OpenDB(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	hash, err := admins.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	repo := admins.NewRepo(pool)
	admin, err := repo.Create(ctx, *username, *email, hash, *role)
	if err != nil {
		if errors.Is(err, admins.ErrDuplicate) {
			log.Fatalf("an admin with username %q or email %q already exists", *username, *email)
		}
		log.Fatalf("create admin: %v", err)
	}

	fmt.Printf("created %s %q (id %d)\n", admin.Role, admin.Username, admin.ID)
}
