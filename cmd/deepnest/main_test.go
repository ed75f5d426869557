package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParsePathSpecDefaultsQuantityAndName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "part.dxf")
	if err := os.WriteFile(path, []byte("0"), 0644); err != nil {
		t.Fatal(err)
	}

	gotPath, qty, name, err := parsePathSpec(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != path || qty != 1 || name != "" {
		t.Fatalf("expected (%s,1,\"\"), got (%s,%d,%q)", path, gotPath, qty, name)
	}
}

func TestParsePathSpecParsesQuantityAndName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "part.dxf")
	if err := os.WriteFile(path, []byte("0"), 0644); err != nil {
		t.Fatal(err)
	}

	spec := path + ":5:bracket"
	_, qty, name, err := parsePathSpec(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qty != 5 || name != "bracket" {
		t.Fatalf("expected (5,bracket), got (%d,%q)", qty, name)
	}
}

func TestParsePathSpecRejectsMissingFile(t *testing.T) {
	if _, _, _, err := parsePathSpec("/nonexistent/missing.dxf"); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestParsePathSpecRejectsInvalidQuantity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "part.dxf")
	if err := os.WriteFile(path, []byte("0"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := parsePathSpec(path + ":notanumber"); err == nil {
		t.Fatal("expected error for a non-numeric quantity")
	}
}
