package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/internal/repository"
	"github.com/noah-isme/lms-api/pkg/config"
	"github.com/noah-isme/lms-api/pkg/database"
)

func main() {
	var email, name, role string
	flag.StringVar(&email, "email", "", "User email (required)")
	flag.StringVar(&name, "name", "", "Full name (required)")
	flag.StringVar(&role, "role", string(models.RoleAdmin), "ADMIN, TEACHER or STUDENT")
	flag.Parse()

	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	userRole := models.UserRole(strings.ToUpper(strings.TrimSpace(role)))
	if email == "" || name == "" {
		flag.Usage()
		os.Exit(2)
	}
	switch userRole {
	case models.RoleAdmin, models.RoleTeacher, models.RoleStudent:
	default:
		log.Fatalf("unknown role %q", role)
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatalf("read password: %v", err)
	}
	if len(password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     name,
		Role:         userRole,
		Active:       true,
	}
	if err := repository.NewUserRepository(db).Create(ctx, user); err != nil {
		log.Fatalf("create user: %v", err)
	}
	fmt.Printf("created %s %s (%s)\n", user.Role, user.Email, user.ID)
}
