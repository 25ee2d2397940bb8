package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/supplychain/internal/model"
	"github.com/erazemk/supplychain/internal/store"
)

// RegisterUser creates an account with a hashed password.
func (s *Service) RegisterUser(ctx context.Context, username, email, password, role string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, validationError("username and email are required")
	}
	if !model.ValidRole(role) {
		return nil, validationError("invalid role %q", role)
	}
	if err := model.ValidatePassword(password); err != nil {
		return nil, validationError("%v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := store.CreateUser(ctx, s.db, username, email, string(hash), role)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, fmt.Errorf("username %q: %w", username, ErrConflict)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user", user.Username, "role", user.Role)
	return user, nil
}

// Authenticate checks a username and password pair.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := store.GetUserByUsername(ctx, s.db, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("login failed", "username", username)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// AddInventory records stock for a supplier.
func (s *Service) AddInventory(ctx context.Context, supplierID int64, itemName string, quantity int) (*model.InventoryItem, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return nil, validationError("item name is required")
	}
	if quantity < 0 {
		return nil, validationError("quantity must not be negative")
	}

	supplier, err := store.GetUser(ctx, s.db, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.Role != model.RoleSupplier {
		return nil, fmt.Errorf("supplier %d: %w", supplierID, ErrNotFound)
	}

	item, err := store.AddInventoryItem(ctx, s.db, supplierID, itemName, quantity)
	if err != nil {
		return nil, err
	}

	s.log.Info("inventory added", "supplier", supplierID, "item", itemName, "quantity", quantity)
	return item, nil
}

// ListInventory returns a supplier's stock.
func (s *Service) ListInventory(ctx context.Context, supplierID int64) ([]model.InventoryItem, error) {
	return store.ListInventory(ctx, s.db, supplierID)
}

// ChangePassword replaces a user's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if current == "" {
		return validationError("current password is required")
	}
	if err := model.ValidatePassword(next); err != nil {
		return validationError("%v", err)
	}

	user, err := store.GetUser(ctx, s.db, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	ok, err := store.UpdateUserPassword(ctx, s.db, userID, string(hash))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	s.log.Info("password changed", "user", user.Username)
	return nil
}

// ListUsers returns accounts with the given role, or all accounts when role
// is empty.
func (s *Service) ListUsers(ctx context.Context, role string) ([]model.User, error) {
	if role != "" && !model.ValidRole(role) {
		return nil, validationError("invalid role %q", role)
	}
	return store.ListUsers(ctx, s.db, role)
}
