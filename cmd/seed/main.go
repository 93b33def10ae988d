package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"finhealth/internal/config"
	"finhealth/internal/db"
	"finhealth/internal/model"
	"finhealth/internal/repository"
	"finhealth/internal/service"
)

const (
	demoEmail    = "demo@finhealth.local"
	demoPassword = "demo-password"
)

type seedTransaction struct {
	Type        model.TransactionType
	Amount      string
	Category    string
	Description string
	DaysAgo     int
}

var demoTransactions = []seedTransaction{
	{model.TransactionTypeIncome, "5200.00", "salary", "monthly salary", 28},
	{model.TransactionTypeIncome, "350.00", "freelance", "side project", 14},
	{model.TransactionTypeExpense, "1400.00", "rent", "", 27},
	{model.TransactionTypeExpense, "420.50", "groceries", "", 20},
	{model.TransactionTypeExpense, "89.99", "utilities", "electricity", 12},
	{model.TransactionTypeExpense, "65.00", "entertainment", "concert tickets", 6},
	{model.TransactionTypeExpense, "230.75", "groceries", "", 3},
}

func main() {
	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Transaction{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	transactionRepo := repository.NewTransactionRepository(gormDB)

	user, err := ensureDemoUser(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed demo user: %v", err)
	}
	log.Printf("Demo user ready: %s (id=%d)", user.Email, user.ID)

	created, err := seedTransactions(ctx, transactionRepo, user.ID)
	if err != nil {
		log.Fatalf("Failed to seed transactions: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Transactions created: %d", created)
	log.Printf("  - Login with %s / %s", demoEmail, demoPassword)
}

func ensureDemoUser(ctx context.Context, repo repository.UserRepository) (*model.User, error) {
	email := service.NormalizeEmail(demoEmail)

	existing, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         "Demo User",
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func seedTransactions(ctx context.Context, repo repository.TransactionRepository, userID uint) (int, error) {
	existing, err := repo.ListByUser(ctx, userID, repository.TransactionFilter{})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Printf("User already has %d transactions, skipping", len(existing))
		return 0, nil
	}

	created := 0
	for _, item := range demoTransactions {
		amount, err := decimal.NewFromString(item.Amount)
		if err != nil {
			log.Printf("Skipping transaction with invalid amount: %s", item.Amount)
			continue
		}

		tx := &model.Transaction{
			UserID:      userID,
			Type:        item.Type,
			Amount:      amount,
			Category:    item.Category,
			Description: item.Description,
			Date:        time.Now().AddDate(0, 0, -item.DaysAgo),
		}
		if err := repo.Create(ctx, tx); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
