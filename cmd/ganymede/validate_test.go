package main

import (
	"os"
	"path/filepath"
	"testing"

	"spend-hq/ganymede/pkg/policy/ast"
	"spend-hq/ganymede/pkg/policy/parser"
)

func TestValidateCommandExists(t *testing.T) {
	if validateCmd == nil {
		t.Fatal("validateCmd is nil")
	}
	if validateCmd.Use != "validate" {
		t.Errorf("validateCmd.Use = %q, want %q", validateCmd.Use, "validate")
	}
	if validateCmd.RunE == nil {
		t.Error("validateCmd.RunE should not be nil")
	}
}

func TestValidateDocument_ValidFile(t *testing.T) {
	data, err := parser.Encode(ast.NewPolicy())
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	validateFlags.file = path
	validateFlags.format = "text"

	if err := validateDocument(validateCmd, nil); err != nil {
		t.Errorf("validateDocument() = %v, want nil", err)
	}
}

func TestValidateDocument_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("containers: [{kind: bogus}]"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	validateFlags.file = path
	validateFlags.format = "json"

	if err := validateDocument(validateCmd, nil); err == nil {
		t.Error("validateDocument() = nil for invalid file, want error")
	}
}

func TestTranslateCommandExists(t *testing.T) {
	if translateCmd == nil {
		t.Fatal("translateCmd is nil")
	}
	if translateCmd.RunE == nil {
		t.Error("translateCmd.RunE should not be nil")
	}
}

func TestTranslateText(t *testing.T) {
	translateFlags.format = "text"
	translateFlags.latency = 0

	err := translateText(translateCmd, []string{"require approval from any manager when a transaction is over $500"})
	if err != nil {
		t.Errorf("translateText() = %v, want nil", err)
	}
}
