package collector

import (
	"fmt"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// exitCode128Error returns a real *exec.ExitError with exit code 128
// by running a shell command that exits with that code.
func exitCode128Error() error {
	cmd := exec.Command("sh", "-c", "exit 128")
	return cmd.Run()
}

func TestCommitsSinceNonGitRepo(t *testing.T) {
	exitErr := exitCode128Error()
	if exitErr == nil {
		t.Fatal("expected exit code 128 error, got nil")
	}

	gc := &GitCollector{
		WorkDir: "/some/dir",
		Runner: func(workDir string, args ...string) (string, error) {
			return "", exitErr
		},
	}

	commits, err := gc.CommitsSince(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("CommitsSince returned unexpected error: %v", err)
	}
	if commits != nil {
		t.Errorf("expected no commits for a non-git directory, got %v", commits)
	}
}

func TestCommitsSinceGitMissing(t *testing.T) {
	gc := &GitCollector{
		WorkDir: "/some/dir",
		Runner: func(workDir string, args ...string) (string, error) {
			return "", &exec.Error{Name: "git", Err: exec.ErrNotFound}
		},
	}
	commits, err := gc.CommitsSince(time.Now())
	if err != nil {
		t.Fatalf("CommitsSince returned unexpected error: %v", err)
	}
	if commits != nil {
		t.Errorf("expected no commits when git is unavailable, got %v", commits)
	}
}

func TestCommitsSinceParsesLog(t *testing.T) {
	since := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	first := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	second := time.Date(2026, 3, 10, 11, 30, 0, 0, time.UTC)

	logOut := fmt.Sprintf("%s\t%d\t%s\n%s\t%d\t%s",
		"aaaa111122223333", first.Unix(), "fix heatmap clamping",
		"bbbb444455556666", second.Unix(), "add badge export")

	showOutputs := map[string]string{
		"aaaa111122223333": "viz.go\nheatmap.go\n",
		"bbbb444455556666": "\nsvg.go\n",
	}

	gc := &GitCollector{
		WorkDir: "/repo",
		Runner: func(workDir string, args ...string) (string, error) {
			if workDir != "/repo" {
				t.Errorf("runner workDir = %q, want /repo", workDir)
			}
			switch args[0] {
			case "rev-parse":
				return "cccc777788889999\n", nil
			case "log":
				if !strings.HasPrefix(args[1], "--since=") {
					t.Errorf("log args missing --since: %v", args)
				}
				return logOut, nil
			case "show":
				return showOutputs[args[len(args)-1]], nil
			}
			t.Fatalf("unexpected git command: %v", args)
			return "", nil
		},
	}

	commits, err := gc.CommitsSince(since)
	if err != nil {
		t.Fatalf("CommitsSince: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("commits = %d, want 2", len(commits))
	}

	c := commits[0]
	if c.Hash != "aaaa111122223333" || c.ShortHash != "aaaa111" {
		t.Errorf("hash = %q/%q, want aaaa111122223333/aaaa111", c.Hash, c.ShortHash)
	}
	if c.Message != "fix heatmap clamping" {
		t.Errorf("message = %q", c.Message)
	}
	if !c.Timestamp.Equal(first) {
		t.Errorf("timestamp = %v, want %v", c.Timestamp, first)
	}
	if len(c.FilesChanged) != 2 || c.FilesChanged[0] != "viz.go" {
		t.Errorf("FilesChanged = %v, want [viz.go heatmap.go]", c.FilesChanged)
	}
	if len(commits[1].FilesChanged) != 1 || commits[1].FilesChanged[0] != "svg.go" {
		t.Errorf("FilesChanged = %v, want [svg.go]", commits[1].FilesChanged)
	}
}

func TestParseLogLine(t *testing.T) {
	if _, _, _, ok := parseLogLine(""); ok {
		t.Error("parseLogLine accepted an empty line")
	}
	if _, _, _, ok := parseLogLine("onlyhash"); ok {
		t.Error("parseLogLine accepted a line without fields")
	}
	if _, _, _, ok := parseLogLine("hash\tnot-a-number\tsubject"); ok {
		t.Error("parseLogLine accepted a bad epoch")
	}
	hash, ts, subject, ok := parseLogLine("abc\t1700000000\tdo the thing")
	if !ok || hash != "abc" || subject != "do the thing" || ts.Unix() != 1700000000 {
		t.Errorf("parseLogLine = %q %v %q %v", hash, ts, subject, ok)
	}
}
