package verify

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perigean/shellwright/src/shellspec"
)

func TestVerifyForwardsOptionsAsSingleArgument(t *testing.T) {
	var stdout, stderr bytes.Buffer
	c := &Command{
		Program: "sh",
		Args:    []string{"-c", `printf '%s' "$1"`, "verify"},
		Stdout:  &stdout,
		Stderr:  &stderr,
	}

	spec := shellspec.Parse("--enable-debug --32")
	err := c.Verify(context.Background(), spec, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "--enable-debug --32", stdout.String(),
		"the flag string must arrive as one argument, not re-split")
}

func TestVerifyExportsCacheDir(t *testing.T) {
	var stdout, stderr bytes.Buffer
	c := &Command{
		Program: "sh",
		Args:    []string{"-c", `printf '%s' "$SHELL_CACHE_DIR"`},
		Stdout:  &stdout,
		Stderr:  &stderr,
	}

	dir := t.TempDir()
	err := c.Verify(context.Background(), shellspec.Spec{}, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, stdout.String())
}

func TestVerifyFailureWritesDiagnosticLog(t *testing.T) {
	var stdout, stderr bytes.Buffer
	c := &Command{
		Program: "sh",
		Args:    []string{"-c", "echo configure error >&2; exit 1"},
		Stdout:  &stdout,
		Stderr:  &stderr,
	}

	dir := t.TempDir()
	err := c.Verify(context.Background(), shellspec.Spec{}, dir)
	require.Error(t, err)

	log, rerr := os.ReadFile(filepath.Join(dir, "verify.log"))
	require.NoError(t, rerr)
	assert.Contains(t, string(log), "verification failed")
	assert.Contains(t, string(log), "configure error")
	assert.Contains(t, stderr.String(), "configure error")
}

func TestVerifyMissingProgram(t *testing.T) {
	c := &Command{
		Program: "definitely-not-a-real-binary-8f2a",
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
	}
	err := c.Verify(context.Background(), shellspec.Spec{}, t.TempDir())
	assert.Error(t, err)
}

func TestFuncAdapter(t *testing.T) {
	called := false
	var v Verifier = Func(func(ctx context.Context, spec shellspec.Spec, cacheDir string) error {
		called = true
		return nil
	})
	require.NoError(t, v.Verify(context.Background(), shellspec.Spec{}, ""))
	assert.True(t, called)
}
