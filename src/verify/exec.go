package verify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/perigean/shellwright/src/shellspec"
)

// diagnosticLog is written into the cache entry when an attempt fails, so
// the captured output survives until the next cache clear.
const diagnosticLog = "verify.log"

// Command shells out to an external verification program, appending the
// spec's raw flags to the configured arguments.
type Command struct {
	Program string   // e.g. "python3"
	Args    []string // e.g. ["-m", "ocs", "-b"]
	Env     []string // extra environment, KEY=VALUE
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewCommand creates a command verifier with default output writers.
func NewCommand(program string, args []string, verbose bool) *Command {
	return &Command{
		Program: program,
		Args:    args,
		Verbose: verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Verify runs the verification command with the cache entry as working
// output directory. The spec's raw flag string is forwarded unchanged as
// the final argument (the `-b "<options>"` convention). On failure the
// captured output is persisted as a diagnostic log inside the cache entry.
func (c *Command) Verify(ctx context.Context, spec shellspec.Spec, cacheDir string) error {
	args := append([]string{}, c.Args...)
	if spec.Raw != "" {
		args = append(args, spec.Raw)
	}

	if c.Verbose {
		fmt.Fprintf(c.Stderr, "exec: %s %s\n", c.Program, strings.Join(args, " "))
	}

	var captured bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Program, args...)
	cmd.Stdout = io.MultiWriter(c.Stdout, &captured)
	cmd.Stderr = io.MultiWriter(c.Stderr, &captured)
	cmd.Env = append(os.Environ(), c.Env...)
	cmd.Env = append(cmd.Env, "SHELL_CACHE_DIR="+cacheDir)

	if err := cmd.Run(); err != nil {
		c.writeDiagnostics(cacheDir, captured.Bytes(), err)
		return fmt.Errorf("verification command failed: %w", err)
	}
	return nil
}

// writeDiagnostics saves the combined output of a failed attempt. Best
// effort: a missing cache dir or write failure never masks the real error.
func (c *Command) writeDiagnostics(cacheDir string, out []byte, cause error) {
	if _, err := os.Stat(cacheDir); err != nil {
		return
	}
	path := filepath.Join(cacheDir, diagnosticLog)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "verification failed: %v\n", cause)
	f.Write(out)
}
