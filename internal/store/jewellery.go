package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/ornate/internal/model"
)

const recordColumns = `id, name, image_url, category, style, outfit_type, occasion,
	primary_colors, secondary_colors, material, notes, created_at`

// CreateRecord inserts a new record. The id and created_at are assigned here
// and any values on r are ignored.
func CreateRecord(ctx context.Context, db *sql.DB, r *model.Record) (*model.Record, error) {
	id := uuid.NewString()
	lists, err := encodeLists(r)
	if err != nil {
		return nil, err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO jewellery (id, name, image_url, category, style, outfit_type, occasion,
		                        primary_colors, secondary_colors, material, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.Name, r.ImageURL, r.Category, lists[0], lists[1], lists[2], lists[3], lists[4],
		r.Material, r.Notes, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating record: %w", err)
	}

	return GetRecord(ctx, db, id)
}

// GetRecord returns a record by ID, or nil if it does not exist.
func GetRecord(ctx context.Context, db *sql.DB, id string) (*model.Record, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM jewellery WHERE id = ?`, id,
	)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}
	return r, nil
}

// ListRecords returns records matching f, oldest first.
func ListRecords(ctx context.Context, db *sql.DB, f model.RecordFilter) ([]model.Record, error) {
	var where []string
	var args []any

	if f.Category != "" {
		where = append(where, `category = ? COLLATE NOCASE`)
		args = append(args, f.Category)
	}
	if f.Occasion != "" {
		where = append(where, `EXISTS (SELECT 1 FROM json_each(jewellery.occasion) WHERE value = ? COLLATE NOCASE)`)
		args = append(args, f.Occasion)
	}
	if f.OutfitType != "" {
		where = append(where, `EXISTS (SELECT 1 FROM json_each(jewellery.outfit_type) WHERE value = ? COLLATE NOCASE)`)
		args = append(args, f.OutfitType)
	}
	if f.Color != "" {
		where = append(where, `(EXISTS (SELECT 1 FROM json_each(jewellery.primary_colors) WHERE value = ? COLLATE NOCASE)
		     OR EXISTS (SELECT 1 FROM json_each(jewellery.secondary_colors) WHERE value = ? COLLATE NOCASE))`)
		args = append(args, f.Color, f.Color)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		where = append(where, `(name LIKE ? ESCAPE '\' OR category LIKE ? ESCAPE '\'
		     OR material LIKE ? ESCAPE '\' OR notes LIKE ? ESCAPE '\')`)
		args = append(args, p, p, p, p)
	}

	query := `SELECT ` + recordColumns + ` FROM jewellery`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY created_at, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// UpdateRecord replaces the mutable fields of a record. It returns nil if the
// record does not exist. The id and created_at never change.
func UpdateRecord(ctx context.Context, db *sql.DB, id string, r *model.Record) (*model.Record, error) {
	lists, err := encodeLists(r)
	if err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE jewellery SET name = ?, image_url = ?, category = ?, style = ?, outfit_type = ?,
		        occasion = ?, primary_colors = ?, secondary_colors = ?, material = ?, notes = ?
		 WHERE id = ?`,
		r.Name, r.ImageURL, r.Category, lists[0], lists[1], lists[2], lists[3], lists[4],
		r.Material, r.Notes, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating record: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking updated rows: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	return GetRecord(ctx, db, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(s rowScanner) (*model.Record, error) {
	r := &model.Record{}
	var name, material, notes sql.NullString
	var lists [5]string
	err := s.Scan(&r.ID, &name, &r.ImageURL, &r.Category,
		&lists[0], &lists[1], &lists[2], &lists[3], &lists[4],
		&material, &notes, &r.CreatedAt)
	if err != nil {
		return nil, err
	}

	targets := []*[]string{&r.Style, &r.OutfitType, &r.Occasion, &r.PrimaryColors, &r.SecondaryColors}
	for i, target := range targets {
		if err := json.Unmarshal([]byte(lists[i]), target); err != nil {
			return nil, fmt.Errorf("decoding list column: %w", err)
		}
		if *target == nil {
			*target = []string{}
		}
	}

	if name.Valid {
		r.Name = &name.String
	}
	if material.Valid {
		r.Material = &material.String
	}
	if notes.Valid {
		r.Notes = &notes.String
	}
	return r, nil
}

// encodeLists serializes the list columns in table order.
func encodeLists(r *model.Record) ([5]string, error) {
	var out [5]string
	for i, list := range [][]string{r.Style, r.OutfitType, r.Occasion, r.PrimaryColors, r.SecondaryColors} {
		if list == nil {
			list = []string{}
		}
		b, err := json.Marshal(list)
		if err != nil {
			return out, fmt.Errorf("encoding list column: %w", err)
		}
		out[i] = string(b)
	}
	return out, nil
}

// likePattern wraps s for a substring LIKE match, escaping wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
