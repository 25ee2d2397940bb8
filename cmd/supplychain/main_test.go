package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/erazemk/supplychain/internal/db"
	"github.com/erazemk/supplychain/internal/workflow"
)

func TestGeneratePassword(t *testing.T) {
	a, err := generatePassword(16)
	if err != nil {
		t.Fatalf("generatePassword: %v", err)
	}
	if len(a) != 16 {
		t.Errorf("expected 16 characters, got %d", len(a))
	}
	b, _ := generatePassword(16)
	if a == b {
		t.Error("expected distinct passwords")
	}
}

func TestSeedUsersOnce(t *testing.T) {
	svc := workflow.New(db.NewTestDB(t), workflow.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ctx := context.Background()

	if err := seedUsers(ctx, svc); err != nil {
		t.Fatalf("seedUsers: %v", err)
	}
	if err := seedUsers(ctx, svc); err != nil {
		t.Fatalf("second seedUsers: %v", err)
	}

	users, err := svc.ListUsers(ctx, "")
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 3 {
		t.Errorf("expected 3 seeded users, got %d", len(users))
	}
}
