package db

import (
	"context"
	"testing"

	"github.com/wajiddaudtamboli/careercompass/pkg/executor/executortest"
)

func TestCreateAndDropDatabase(t *testing.T) {
	admin := executortest.New()
	ctx := context.Background()

	created, err := CreateDatabase(ctx, admin, "career_compass")
	if err != nil || !created {
		t.Fatalf("expected database to be created, got %v, %v", created, err)
	}
	if !admin.HasDatabase("career_compass") {
		t.Fatal("database not created")
	}

	created, err = CreateDatabase(ctx, admin, "career_compass")
	if err != nil || created {
		t.Fatalf("second create should be a no-op, got %v, %v", created, err)
	}

	if err := DropDatabase(ctx, admin, "career_compass"); err != nil {
		t.Fatal(err)
	}
	if admin.HasDatabase("career_compass") {
		t.Fatal("database not dropped")
	}
	if err := DropDatabase(ctx, admin, "career_compass"); err != nil {
		t.Fatalf("dropping a missing database should succeed, got %v", err)
	}
}
