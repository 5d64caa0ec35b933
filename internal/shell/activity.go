// Package shell handles shell plugin installation and activity log
// reading. The plugin appends an epoch-stamped line for every command run
// while a session is active; the tracker consumes these as activity
// signals (keystroke events and idle-resume triggers).
package shell

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one logged shell command.
type Entry struct {
	Timestamp time.Time
	Command   string
}

// ActivityLogPath returns the path to the dendro activity log file.
func ActivityLogPath() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "dendro", "activity.log"), nil
}

// ReadActivityLog reads all entries from the activity log.
// Format per line: <epoch>\t<command>
func ReadActivityLog() ([]Entry, error) {
	path, err := ActivityLogPath()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no log yet, nothing to report
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		tab := strings.IndexByte(line, '\t')
		if tab < 1 {
			continue
		}
		epoch, err := strconv.ParseInt(line[:tab], 10, 64)
		if err != nil {
			continue
		}
		cmd := line[tab+1:]
		if cmd == "" {
			continue
		}
		entries = append(entries, Entry{
			Timestamp: time.Unix(epoch, 0),
			Command:   cmd,
		})
	}
	return entries, scanner.Err()
}

// EntriesAfter filters entries to those strictly after t.
func EntriesAfter(entries []Entry, t time.Time) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Timestamp.After(t) {
			out = append(out, e)
		}
	}
	return out
}

// TruncateActivityLog empties the activity log after a session is stopped.
func TruncateActivityLog() error {
	path, err := ActivityLogPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return os.WriteFile(path, nil, 0o644)
}
