// Package filestore keeps stock as one line-delimited text file per
// module: <root>/<guild id>/<module>.txt.
package filestore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disgoorg/snowflake/v2"

	"github.com/ruthless-bot/ruthless/internal/domain/inventory"
	"github.com/ruthless-bot/ruthless/internal/domain/logger"
)

const ext = ".txt"

type Backend struct {
	root string
}

func New(root string) (*Backend, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create stock folder: %w", err)
	}
	return &Backend{root: root}, nil
}

func (b *Backend) scopeDir(scope snowflake.ID) string {
	return filepath.Join(b.root, scope.String())
}

func (b *Backend) path(scope snowflake.ID, module string) (string, error) {
	if module == "" || module != filepath.Base(module) || strings.HasPrefix(module, ".") {
		return "", inventory.ErrInvalidModuleName
	}
	return filepath.Join(b.scopeDir(scope), module+ext), nil
}

func (b *Backend) List(_ context.Context, scope snowflake.ID) ([]string, error) {
	entries, err := os.ReadDir(b.scopeDir(scope))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ext))
	}
	return names, nil
}

// Read returns the non-blank, trimmed lines. A missing file reads as empty.
func (b *Backend) Read(_ context.Context, scope snowflake.ID, module string) (items []string, err error) {
	q := logger.NewQueryLogger("file", "read", scope, module)
	defer func() { q.Log(err, len(items)) }()

	p, err := b.path(scope, module)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	items = []string{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			items = append(items, line)
		}
	}
	return items, scanner.Err()
}

// Write replaces the module file through a temp file and rename.
func (b *Backend) Write(_ context.Context, scope snowflake.ID, module string, items []string) (err error) {
	q := logger.NewQueryLogger("file", "write", scope, module)
	defer func() { q.Log(err, len(items)) }()

	p, err := b.path(scope, module)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), module+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, item := range items {
		if _, err = w.WriteString(item + "\n"); err != nil {
			tmp.Close()
			return err
		}
	}
	if err = w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (b *Backend) Exists(_ context.Context, scope snowflake.ID, module string) (bool, error) {
	p, err := b.path(scope, module)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (b *Backend) Create(_ context.Context, scope snowflake.ID, module string) error {
	p, err := b.path(scope, module)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return inventory.ErrModuleExists
	}
	if err != nil {
		return err
	}
	return f.Close()
}

func (b *Backend) Delete(_ context.Context, scope snowflake.ID, module string) error {
	p, err := b.path(scope, module)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return inventory.ErrModuleNotFound
	}
	return err
}
