// Package collector gathers host-side activity signals for the tracker:
// commits from git, file edits from a filesystem watcher, and the
// extension-based language of each edited file. The engine never runs
// these itself; the host feeds their output across the boundary.
package collector

import (
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/dendro-dev/dendro/internal/session"
)

// GitRunner executes a git command and returns its output.
// This abstraction allows mocking in tests.
type GitRunner func(workDir string, args ...string) (string, error)

// GitCollector collects commits made during a session window.
type GitCollector struct {
	WorkDir string
	Runner  GitRunner // if nil, uses the real git subprocess
}

// defaultGitRunner runs git as a real subprocess.
func defaultGitRunner(workDir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = workDir
	out, err := cmd.Output()
	return string(out), err
}

// CommitsSince returns references for every commit made after since.
// If the working directory is not a git repository, or git is not
// available at all, it returns no commits and no error: commit tracking
// is best-effort from the host's point of view.
func (g *GitCollector) CommitsSince(since time.Time) ([]session.CommitRef, error) {
	runner := g.Runner
	if runner == nil {
		runner = defaultGitRunner
	}

	// Also serves as the "is this a git repo?" check.
	if _, err := runner(g.WorkDir, "rev-parse", "HEAD"); err != nil {
		if isExitCode128(err) || isGitMissing(err) {
			return nil, nil
		}
		return nil, err
	}

	logOut, err := runner(g.WorkDir, "log",
		"--since="+since.Format(time.RFC3339),
		"--pretty=format:%H\t%ct\t%s")
	if err != nil {
		return nil, err
	}

	var commits []session.CommitRef
	for _, line := range strings.Split(logOut, "\n") {
		hash, timestamp, subject, ok := parseLogLine(line)
		if !ok {
			continue
		}
		files, err := g.filesChanged(runner, hash)
		if err != nil {
			return nil, err
		}
		commits = append(commits, session.NewCommitRef(hash, subject, timestamp, files))
	}
	return commits, nil
}

// filesChanged lists the paths touched by one commit.
func (g *GitCollector) filesChanged(runner GitRunner, hash string) ([]string, error) {
	out, err := runner(g.WorkDir, "show", "--name-only", "--pretty=format:", hash)
	if err != nil {
		return nil, err
	}
	files := []string{}
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// parseLogLine splits one "<hash>\t<epoch>\t<subject>" log line.
func parseLogLine(line string) (hash string, timestamp time.Time, subject string, ok bool) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) != 3 || parts[0] == "" {
		return "", time.Time{}, "", false
	}
	epoch, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", time.Time{}, "", false
	}
	return parts[0], time.Unix(epoch, 0).UTC(), parts[2], true
}

// isExitCode128 reports whether err is an *exec.ExitError with exit code
// 128 (git's "not a repository").
func isExitCode128(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode() == 128
	}
	return false
}

// isGitMissing reports whether the git binary itself was not found.
func isGitMissing(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}
