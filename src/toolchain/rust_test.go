package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCargoToml(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(content), 0o644))
	return dir
}

func TestRequiredRustFromPackage(t *testing.T) {
	dir := writeCargoToml(t, `
[package]
name = "jsrust"
rust-version = "1.76.0"
`)
	v, err := RequiredRust(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.76.0", v)
}

func TestRequiredRustFromWorkspace(t *testing.T) {
	dir := writeCargoToml(t, `
[workspace]
members = ["js/src/rust"]

[workspace.package]
rust-version = "1.74"
`)
	v, err := RequiredRust(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.74", v)
}

func TestRequiredRustPackageWinsOverWorkspace(t *testing.T) {
	dir := writeCargoToml(t, `
[package]
rust-version = "1.80"

[workspace.package]
rust-version = "1.74"
`)
	v, err := RequiredRust(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.80", v)
}

func TestRequiredRustMissingManifest(t *testing.T) {
	v, err := RequiredRust(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestRequiredRustNoVersionKey(t *testing.T) {
	dir := writeCargoToml(t, "[package]\nname = \"jsrust\"\n")
	v, err := RequiredRust(dir)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestRequiredRustMalformedManifest(t *testing.T) {
	dir := writeCargoToml(t, "[package\n")
	_, err := RequiredRust(dir)
	assert.Error(t, err)
}

func TestCompareRust(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		required string
		wantErr  bool
	}{
		{"exact", "1.76.0", "1.76.0", false},
		{"newer", "1.80.1", "1.76.0", false},
		{"older", "1.70.0", "1.76.0", true},
		{"lenient required", "1.76.0", "1.76", false},
		{"lenient older", "1.75.2", "1.76", true},
		{"garbage host", "nightly", "1.76", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareRust(tt.host, tt.required)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckRustNoRequirement(t *testing.T) {
	assert.NoError(t, CheckRust(context.Background(), t.TempDir()))
}
