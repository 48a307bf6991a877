// Package vault is the narrow interface to the user's note vault. The chat
// store and services depend only on Adapter so they can run against a
// temp-dir vault in tests.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yargevad/filepathx"
)

// Entry is one child of a vault folder.
type Entry struct {
	Name    string
	IsDir   bool
	ModTime time.Time
}

// Adapter is the file surface the host vault exposes. All paths are
// vault-relative, slash-separated.
type Adapter interface {
	Exists(path string) bool
	Read(path string) (string, error)
	Write(path, data string) error
	Append(path, data string) error
	Mkdir(path string) error
	RemoveAll(path string) error
	List(path string) ([]Entry, error)
	Glob(pattern string) ([]string, error)
	Stat(path string) (Entry, error)
}

type osAdapter struct {
	root string
}

// NewOS returns an Adapter rooted at root on the local filesystem.
func NewOS(root string) (Adapter, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vault root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root %s is not a directory", root)
	}
	return &osAdapter{root: abs}, nil
}

// resolve maps a vault-relative path to an absolute one, rejecting paths
// that escape the vault root.
func (a *osAdapter) resolve(path string) (string, error) {
	candidate := filepath.Join(a.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(a.root, candidate)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the vault root", path)
	}
	return candidate, nil
}

func (a *osAdapter) Exists(path string) bool {
	abs, err := a.resolve(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

func (a *osAdapter) Read(path string) (string, error) {
	abs, err := a.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (a *osAdapter) Write(path, data string) error {
	abs, err := a.resolve(path)
	if err != nil {
		return err
	}
	return os.WriteFile(abs, []byte(data), 0644)
}

func (a *osAdapter) Append(path, data string) error {
	abs, err := a.resolve(path)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *osAdapter) Mkdir(path string) error {
	abs, err := a.resolve(path)
	if err != nil {
		return err
	}
	return os.Mkdir(abs, 0755)
}

func (a *osAdapter) RemoveAll(path string) error {
	abs, err := a.resolve(path)
	if err != nil {
		return err
	}
	return os.RemoveAll(abs)
}

func (a *osAdapter) List(path string) ([]Entry, error) {
	abs, err := a.resolve(path)
	if err != nil {
		return nil, err
	}
	dirents, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		e := Entry{Name: d.Name(), IsDir: d.IsDir()}
		if info, err := d.Info(); err == nil {
			e.ModTime = info.ModTime()
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Glob matches a vault-relative pattern (supports ** via filepathx) and
// returns vault-relative, slash-separated paths.
func (a *osAdapter) Glob(pattern string) ([]string, error) {
	matches, err := filepathx.Glob(filepath.Join(a.root, filepath.FromSlash(pattern)))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(a.root, m)
		if err != nil {
			continue
		}
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out, nil
}

func (a *osAdapter) Stat(path string) (Entry, error) {
	abs, err := a.resolve(path)
	if err != nil {
		return Entry{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Name: info.Name(), IsDir: info.IsDir(), ModTime: info.ModTime()}, nil
}
