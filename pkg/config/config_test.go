package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNKeepsExplicitValue(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://app:secret@db:5432/zenmart?sslmode=disable"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "postgres://app:secret@db:5432/zenmart?sslmode=disable" {
		t.Fatalf("explicit DSN should be untouched, got %q", cfg.DSN)
	}
}

func TestEnsureDSNBuildsFromParts(t *testing.T) {
	cfg := DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "zenmart",
		Password: "pw",
		Name:     "zenmart",
		SSLMode:  "disable",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(cfg.DSN, "postgres://zenmart:pw@localhost:5432/zenmart") {
		t.Fatalf("unexpected DSN %q", cfg.DSN)
	}
	if !strings.Contains(cfg.DSN, "sslmode=disable") {
		t.Fatalf("expected sslmode in DSN, got %q", cfg.DSN)
	}
}

func TestEnsureDSNReportsMissingParts(t *testing.T) {
	cfg := DBConfig{Host: "localhost"}
	err := cfg.ensureDSN()
	if err == nil {
		t.Fatal("expected error for missing DB settings")
	}
	if !strings.Contains(err.Error(), "ZENMART_DB_USER") || !strings.Contains(err.Error(), "ZENMART_DB_NAME") {
		t.Fatalf("error should name missing variables, got %v", err)
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	app := AppConfig{Env: "Dev"}
	if !app.IsDev() {
		t.Fatal("IsDev should ignore case")
	}
	if app.IsProd() {
		t.Fatal("dev env must not report prod")
	}
}
