// Package store persists parsed bills. Every backend receives whole bills
// through AddBill and can read them back for a session.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/billhist/internal/model"
	"github.com/ppiankov/billhist/internal/util"
)

// dateLayout is how action and vote dates are written; they carry no time
const dateLayout = "2006-01-02"

// Store is a bill persistence backend
type Store interface {
	AddBill(ctx context.Context, bill *model.Bill) error
	LoadBills(ctx context.Context, session string, chamber model.Chamber) ([]*model.Bill, error)
	Close() error
}

// Open creates the backend selected by cfg
func Open(cfg model.StoreConfig) (Store, error) {
	path, err := util.ExpandHome(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("store path: %w", err)
	}

	switch cfg.Driver {
	case "", "sqlite":
		return OpenSQLite(path)
	case "json":
		return NewJSONStore(path), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// safeName turns a session or bill identifier into a file name. Names made
// only of dots, or empty, become "_" so they cannot leave the store root.
func safeName(s string) string {
	if strings.Trim(s, ".") == "" {
		return "_"
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
