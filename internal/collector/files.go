package collector

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FileEvent is one observed file modification.
type FileEvent struct {
	Path     string
	Language string
}

// FileWatcher watches a directory tree and reports edits to source files.
type FileWatcher struct {
	WorkDir        string
	IgnorePatterns []string
}

// Watch starts a recursive fsnotify watcher on WorkDir and sends an event
// for every Write/Create to a non-ignored file until ctx is cancelled.
// Watcher errors are non-fatal; the watcher keeps running.
func (fw *FileWatcher) Watch(ctx context.Context, events chan<- FileEvent) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	patterns, _ := fw.loadIgnorePatterns()

	// Walk the directory tree and add a watcher for every subdirectory.
	if err := filepath.WalkDir(fw.WorkDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			if fw.isIgnored(path, patterns) {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if fw.isIgnored(event.Name, patterns) {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				// A new directory needs watching too.
				if event.Has(fsnotify.Create) {
					_ = watcher.Add(event.Name)
				}
				continue
			}
			select {
			case events <- FileEvent{Path: event.Name, Language: DetectLanguage(event.Name)}:
			case <-ctx.Done():
				return nil
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

// isIgnored reports whether path matches any of the given glob patterns.
func (fw *FileWatcher) isIgnored(path string, patterns []string) bool {
	rel := path
	if fw.WorkDir != "" {
		if r, err := filepath.Rel(fw.WorkDir, path); err == nil {
			rel = r
		}
	}
	base := filepath.Base(path)

	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

// loadIgnorePatterns merges the configured patterns with those from
// .gitignore and .dendroignore files found in the working directory.
func (fw *FileWatcher) loadIgnorePatterns() ([]string, error) {
	patterns := make([]string, len(fw.IgnorePatterns))
	copy(patterns, fw.IgnorePatterns)
	patterns = append(patterns, ".git")

	for _, name := range []string{".gitignore", ".dendroignore"} {
		extra, err := readPatternFile(filepath.Join(fw.WorkDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return patterns, err
		}
		patterns = append(patterns, extra...)
	}
	return patterns, nil
}

// readPatternFile reads a gitignore-style file and returns non-empty,
// non-comment lines.
func readPatternFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}
