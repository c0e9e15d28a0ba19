package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/billhist/internal/model"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps bills in a SQLite database, one row per bill plus child
// rows for its actions, votes, sponsors and documents
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path. ":memory:" gives a
// private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file path
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AddBill writes a bill in one transaction. A bill already stored under the
// same session and identifier is replaced.
func (s *SQLiteStore) AddBill(ctx context.Context, bill *model.Bill) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bills WHERE session = ? AND bill_id = ?`, bill.Session, bill.ID); err != nil {
		return fmt.Errorf("failed to replace bill: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO bills (session, bill_id, number, chamber, title, source_url)
		VALUES (?, ?, ?, ?, ?, ?)
	`, bill.Session, bill.ID, bill.Number, string(bill.Chamber), bill.Title, bill.SourceURL)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}
	pk, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get bill ID: %w", err)
	}

	for i, a := range bill.Actions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO actions (bill_pk, seq, date, actor, text) VALUES (?, ?, ?, ?, ?)
		`, pk, i, a.Date.Format(dateLayout), string(a.Actor), a.Text); err != nil {
			return fmt.Errorf("failed to insert action: %w", err)
		}
	}
	for i, v := range bill.Votes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO votes (bill_pk, seq, chamber, date, motion, passed, yes_count, no_count, other_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, pk, i, string(v.Chamber), v.Date.Format(dateLayout), v.Motion, v.Passed, v.Yes, v.No, v.Other); err != nil {
			return fmt.Errorf("failed to insert vote: %w", err)
		}
	}
	for i, sp := range bill.Sponsors {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sponsors (bill_pk, seq, name, role) VALUES (?, ?, ?, ?)
		`, pk, i, sp.Name, string(sp.Role)); err != nil {
			return fmt.Errorf("failed to insert sponsor: %w", err)
		}
	}
	for i, d := range bill.Documents {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (bill_pk, seq, label, link) VALUES (?, ?, ?, ?)
		`, pk, i, d.Label, d.Link); err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bill: %w", err)
	}
	return nil
}

// LoadBills reads back the bills of a session, optionally for one chamber,
// ordered by bill number
func (s *SQLiteStore) LoadBills(ctx context.Context, session string, chamber model.Chamber) ([]*model.Bill, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bill_pk, bill_id, number, chamber, title, COALESCE(source_url, '')
		FROM bills
		WHERE session = ? AND (? = '' OR chamber = ?)
		ORDER BY number, bill_id
	`, session, string(chamber), string(chamber))
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}

	type row struct {
		pk   int64
		bill *model.Bill
	}
	var loaded []row
	for rows.Next() {
		var (
			pk                    int64
			id, ch, title, srcURL string
			number                int
		)
		if err := rows.Scan(&pk, &id, &number, &ch, &title, &srcURL); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bill := model.NewBill(session, model.Chamber(ch), id, title)
		bill.Number = number
		bill.SourceURL = srcURL
		loaded = append(loaded, row{pk: pk, bill: bill})
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to read bills: %w", err)
	}
	_ = rows.Close()

	bills := make([]*model.Bill, 0, len(loaded))
	for _, r := range loaded {
		if err := s.loadChildren(ctx, r.pk, r.bill); err != nil {
			return nil, err
		}
		bills = append(bills, r.bill)
	}
	return bills, nil
}

func (s *SQLiteStore) loadChildren(ctx context.Context, pk int64, bill *model.Bill) error {
	err := s.each(ctx, `SELECT date, actor, text FROM actions WHERE bill_pk = ? ORDER BY seq`, pk, func(rows *sql.Rows) error {
		var date, actor string
		var a model.Action
		if err := rows.Scan(&date, &actor, &a.Text); err != nil {
			return err
		}
		d, err := parseDate(date)
		if err != nil {
			return err
		}
		a.Date, a.Actor = d, model.Chamber(actor)
		bill.AddAction(a)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load actions of %s: %w", bill.ID, err)
	}

	err = s.each(ctx, `SELECT chamber, date, motion, passed, yes_count, no_count, other_count FROM votes WHERE bill_pk = ? ORDER BY seq`, pk, func(rows *sql.Rows) error {
		var chamber, date string
		var v model.Vote
		if err := rows.Scan(&chamber, &date, &v.Motion, &v.Passed, &v.Yes, &v.No, &v.Other); err != nil {
			return err
		}
		d, err := parseDate(date)
		if err != nil {
			return err
		}
		v.Date, v.Chamber = d, model.Chamber(chamber)
		bill.AddVote(v)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load votes of %s: %w", bill.ID, err)
	}

	err = s.each(ctx, `SELECT name, role FROM sponsors WHERE bill_pk = ? ORDER BY seq`, pk, func(rows *sql.Rows) error {
		var name, role string
		if err := rows.Scan(&name, &role); err != nil {
			return err
		}
		bill.AddSponsor(model.Sponsor{Name: name, Role: model.SponsorRole(role)})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load sponsors of %s: %w", bill.ID, err)
	}

	err = s.each(ctx, `SELECT label, link FROM documents WHERE bill_pk = ? ORDER BY seq`, pk, func(rows *sql.Rows) error {
		var d model.Document
		if err := rows.Scan(&d.Label, &d.Link); err != nil {
			return err
		}
		bill.AddDocument(d)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load documents of %s: %w", bill.ID, err)
	}
	return nil
}

func (s *SQLiteStore) each(ctx context.Context, query string, pk int64, fn func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query, pk)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
