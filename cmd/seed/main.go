package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// seed creates an initial user and prints an access token for it
func main() {
	username := flag.String("username", "superadmin", "login name")
	password := flag.String("password", "", "initial password (required)")
	role := flag.String("role", string(user.RoleSuperAdmin), "superadmin, admin or supervisor")
	companies := flag.String("companies", "", "comma separated company ids")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if *password == "" {
		logger.Error("password is required")
		os.Exit(2)
	}
	r := user.Role(*role)
	if !r.IsValid() {
		logger.Error("invalid role", "role", *role)
		os.Exit(2)
	}
	var companyIDs []string
	for _, id := range strings.Split(*companies, ",") {
		if id = strings.TrimSpace(id); id != "" {
			companyIDs = append(companyIDs, id)
		}
	}
	if r == user.RoleSupervisor && len(companyIDs) == 0 {
		logger.Error(user.ErrSupervisorNeedsCompany.Error())
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{})
	if err != nil {
		logger.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		os.Exit(1)
	}
	hashStr := string(hash)

	userRepo := postgresql.NewUserRepository(db)
	var created user.User
	err = postgresql.WithTransaction(ctx, db, func(txCtx context.Context) error {
		created, err = userRepo.Create(txCtx, user.User{
			ID:           uuid.Must(uuid.NewV7()).String(),
			Username:     *username,
			FirstName:    *username,
			PasswordHash: &hashStr,
			Role:         r,
		})
		if err != nil {
			return err
		}
		if len(companyIDs) == 0 {
			return nil
		}
		return userRepo.AssignCompanies(txCtx, created.ID, companyIDs)
	})
	if err != nil {
		logger.Error("Failed to seed user", "error", err)
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessToken(created.ID, created.Role)
	if err != nil {
		logger.Error("Failed to issue access token", "error", err)
		os.Exit(1)
	}

	logger.Info("User seeded", "id", created.ID, "username", created.Username, "role", created.Role, "companies", companyIDs)
	fmt.Printf("access_token=%s\nexpires_at=%d\n", token, expiresAt)
}
