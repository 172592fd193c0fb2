// Package toolchain runs preflight checks on the host before any build
// attempt is burned: engine trees with Rust components declare a minimum
// rustc in Cargo.toml, and failing that check here gives a clear error
// instead of three opaque build failures.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	toml "github.com/pelletier/go-toml/v2"
)

// RequiredRust reads the minimum rust-version declared by the source tree's
// root Cargo.toml. Empty string means no Rust requirement (no Cargo.toml or
// no rust-version key).
func RequiredRust(treeDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(treeDir, "Cargo.toml"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading Cargo.toml: %w", err)
	}

	var manifest struct {
		Package struct {
			RustVersion string `toml:"rust-version"`
		} `toml:"package"`
		Workspace struct {
			Package struct {
				RustVersion string `toml:"rust-version"`
			} `toml:"package"`
		} `toml:"workspace"`
	}
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return "", fmt.Errorf("parsing Cargo.toml: %w", err)
	}

	if v := manifest.Package.RustVersion; v != "" {
		return v, nil
	}
	return manifest.Workspace.Package.RustVersion, nil
}

// HostRust returns the version of the rustc on PATH.
func HostRust(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "rustc", "--version").Output()
	if err != nil {
		return "", fmt.Errorf("running rustc --version: %w", err)
	}
	// "rustc 1.76.0 (07dca489a 2024-02-04)"
	fields := strings.Fields(string(out))
	if len(fields) < 2 {
		return "", fmt.Errorf("unexpected rustc version output: %q", strings.TrimSpace(string(out)))
	}
	return fields[1], nil
}

// CheckRust verifies the host rustc satisfies the tree's declared minimum.
// Trees without a Rust requirement pass trivially.
func CheckRust(ctx context.Context, treeDir string) error {
	required, err := RequiredRust(treeDir)
	if err != nil {
		return err
	}
	if required == "" {
		return nil
	}

	host, err := HostRust(ctx)
	if err != nil {
		return fmt.Errorf("tree requires rust %s but no usable rustc found: %w", required, err)
	}
	return CompareRust(host, required)
}

// CompareRust returns an error when the host version is below the required
// minimum. Both values are parsed leniently ("1.76" is treated as 1.76.0).
func CompareRust(host, required string) error {
	hv, err := semver.NewVersion(host)
	if err != nil {
		return fmt.Errorf("parsing host rustc version %q: %w", host, err)
	}
	constraint, err := semver.NewConstraint(">= " + required)
	if err != nil {
		return fmt.Errorf("parsing required rust version %q: %w", required, err)
	}
	if !constraint.Check(hv) {
		return fmt.Errorf("host rustc %s is older than required %s", host, required)
	}
	return nil
}
