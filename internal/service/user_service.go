package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"lookbook-service/internal/models"
	"net/mail"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("Invalid email or password.")
	ErrEmailTaken         = errors.New("An account with this email already exists.")
)

// UserStore is the record-store surface for accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.UserAccount) (*models.UserAccount, error)
	FindByEmail(ctx context.Context, email string) (*models.UserAccount, error)
	FindByID(ctx context.Context, id string) (*models.UserAccount, error)
	TouchLastLogin(ctx context.Context, id bson.ObjectID) error
}

type UserService struct {
	userStore UserStore
}

func NewUserService(userStore UserStore) *UserService {
	return &UserService{userStore: userStore}
}

// Register creates an account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.UserAccount, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.New("Invalid email address.")
	}
	if len(password) < 8 {
		return nil, errors.New("Password must be at least 8 characters.")
	}

	existing, err := s.userStore.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking existing account: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.userStore.Create(ctx, &models.UserAccount{
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	return user, nil
}

// Authenticate verifies credentials and returns the account.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.UserAccount, error) {
	user, err := s.userStore.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error retrieving account: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.userStore.TouchLastLogin(ctx, user.ID); err != nil {
		log.Printf("Error updating last login for %s: %v", user.Email, err)
	}

	return user, nil
}

// GetUser returns an account by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.UserAccount, error) {
	user, err := s.userStore.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving account: %w", err)
	}
	if user == nil {
		return nil, errors.New("account not found")
	}
	return user, nil
}
