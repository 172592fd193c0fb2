package output

import (
	"fmt"
	"io"
	"os"
	"time"
)

// CI environment detection.

func IsCI() bool {
	return os.Getenv("CI") == "true"
}

func IsGitHubActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

func IsGitLabCI() bool {
	return os.Getenv("GITLAB_CI") == "true"
}

// Collapsible log section helpers. GitHub Actions uses ::group:: markers,
// GitLab uses section_start/section_end escape sequences. Outside CI both
// are no-ops.

func SectionStart(w io.Writer, id, name string) {
	switch {
	case IsGitHubActions():
		fmt.Fprintf(w, "::group::%s\n", name)
	case IsGitLabCI():
		ts := time.Now().Unix()
		fmt.Fprintf(w, "\033[0Ksection_start:%d:%s\r\033[0K%s\n", ts, id, name)
	}
}

func SectionEnd(w io.Writer, id string) {
	switch {
	case IsGitHubActions():
		fmt.Fprintln(w, "::endgroup::")
	case IsGitLabCI():
		ts := time.Now().Unix()
		fmt.Fprintf(w, "\033[0Ksection_end:%d:%s\r\033[0K\n", ts, id)
	}
}

// SectionStartCollapsed starts a section that is collapsed by default.
// GitHub Actions groups are always collapsed; the distinction only matters
// on GitLab.
func SectionStartCollapsed(w io.Writer, id, name string) {
	if IsGitLabCI() {
		ts := time.Now().Unix()
		fmt.Fprintf(w, "\033[0Ksection_start:%d:%s[collapsed=true]\r\033[0K%s\n", ts, id, name)
		return
	}
	SectionStart(w, id, name)
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}

// ContextKV collects run context from common CI environment variables.
// Works for both GitHub Actions and GitLab CI; empty outside CI.
func ContextKV() []KV {
	var kv []KV

	if run := os.Getenv("GITHUB_RUN_ID"); run != "" {
		kv = append(kv, KV{Key: "Run", Value: run})
	} else if pipe := os.Getenv("CI_PIPELINE_ID"); pipe != "" {
		kv = append(kv, KV{Key: "Pipeline", Value: pipe})
	}

	if sha := os.Getenv("GITHUB_SHA"); sha != "" && len(sha) >= 8 {
		kv = append(kv, KV{Key: "Commit", Value: sha[:8]})
	} else if sha := os.Getenv("CI_COMMIT_SHORT_SHA"); sha != "" {
		kv = append(kv, KV{Key: "Commit", Value: sha})
	}

	if branch := os.Getenv("GITHUB_REF_NAME"); branch != "" {
		kv = append(kv, KV{Key: "Branch", Value: branch})
	} else if branch := os.Getenv("CI_COMMIT_BRANCH"); branch != "" {
		kv = append(kv, KV{Key: "Branch", Value: branch})
	}

	if runner := os.Getenv("RUNNER_OS"); runner != "" {
		kv = append(kv, KV{Key: "Runner", Value: runner})
	} else if runner := os.Getenv("CI_RUNNER_DESCRIPTION"); runner != "" {
		kv = append(kv, KV{Key: "Runner", Value: runner})
	}

	return kv
}
