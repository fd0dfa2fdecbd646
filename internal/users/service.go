// Package users implements account creation and credential checks on top of
// the shared CRUD service.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/postan/postan-api/internal/crud"
	"github.com/postan/postan-api/internal/models"
	"github.com/postan/postan-api/internal/store"
	"github.com/postan/postan-api/internal/validation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt cost applied to new passwords.
const DefaultHashCost = 12

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrIncorrectLogin = errors.New("incorrect login information")
)

// Service encapsulates user-related business logic
type Service struct {
	users *crud.Service[models.User]
	orch  *validation.Orchestrator
	cost  int
}

func NewService(s store.Store, orch *validation.Orchestrator, hashCost int) *Service {
	if hashCost <= 0 {
		hashCost = DefaultHashCost
	}
	conflict := func(u *models.User) bson.D {
		return bson.D{{Key: models.FieldEmail, Value: u.Email}, {Key: models.FieldHandle, Value: u.Handle}}
	}
	return &Service{
		users: crud.NewService(models.KindUser, s, orch.ValidateUser, conflict),
		orch:  orch,
		cost:  hashCost,
	}
}

// Signup validates the submitted fields with the plain-text password, then
// stores the user with the password hashed.
func (s *Service) Signup(ctx context.Context, src validation.Source) (*models.User, error) {
	u, err := s.orch.ValidateUserSource(ctx, src)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.Password = string(hash)
	id, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	return u, nil
}

// Authenticate returns the user owning email when password matches.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrIncorrectLogin
	}
	return u, nil
}

// FindByEmail returns nil when no user has the address.
func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	found, err := s.users.Find(ctx, bson.D{{Key: models.FieldEmail, Value: email}})
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.Get(ctx, id)
}

// CRUD exposes the generic service for the shared read/delete handlers.
func (s *Service) CRUD() *crud.Service[models.User] { return s.users }
