package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/billhist/internal/model"
)

// JSONStore writes one indented JSON file per bill under
// <dir>/<session>/<chamber>/<bill id>.json
type JSONStore struct {
	dir string
}

// NewJSONStore creates a store rooted at dir. Directories are created on
// first write.
func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) billPath(bill *model.Bill) string {
	return filepath.Join(s.dir, safeName(bill.Session), safeName(string(bill.Chamber)), safeName(bill.ID)+".json")
}

// AddBill writes the bill file, replacing an earlier copy
func (s *JSONStore) AddBill(ctx context.Context, bill *model.Bill) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.billPath(bill)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create bill directory: %w", err)
	}

	data, err := json.MarshalIndent(bill, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bill %s: %w", bill.ID, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write bill %s: %w", bill.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write bill %s: %w", bill.ID, err)
	}
	return nil
}

// LoadBills reads the bills of a session, optionally for one chamber,
// ordered by bill number
func (s *JSONStore) LoadBills(ctx context.Context, session string, chamber model.Chamber) ([]*model.Bill, error) {
	root := filepath.Join(s.dir, safeName(session))
	if chamber != "" {
		root = filepath.Join(root, safeName(string(chamber)))
	}

	var bills []*model.Bill
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var bill model.Bill
		if err := json.Unmarshal(data, &bill); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		bills = append(bills, &bill)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}

	sort.Slice(bills, func(i, j int) bool {
		if bills[i].Number != bills[j].Number {
			return bills[i].Number < bills[j].Number
		}
		return bills[i].ID < bills[j].ID
	})
	return bills, nil
}
