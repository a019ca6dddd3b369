package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/miosync-masa/digit-consonance/internal/model"
)

// SaveZeroTable stores table under name, replacing any table of the same name.
// Gamma and weight are stored as their decimal text so no precision is lost.
func (s *SQLiteStorage) SaveZeroTable(ctx context.Context, name string, table *model.ZeroTable) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}
	if err := validateZeroTable(table); err != nil {
		return err
	}

	var metaJSON sql.NullString
	if len(table.Metadata.FileMeta) > 0 {
		data, err := json.Marshal(table.Metadata.FileMeta)
		if err != nil {
			return fmt.Errorf("failed to encode table metadata: %w", err)
		}
		metaJSON = sql.NullString{String: string(data), Valid: true}
	}

	var t sql.NullFloat64
	if table.Metadata.T != nil {
		t = sql.NullFloat64{Float64: *table.Metadata.T, Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM zero_tables WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to replace zero table %q: %w", name, err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO zero_tables (name, source, version, accuracy, k, t, meta_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		name, table.Metadata.Source, table.Metadata.Version, table.Metadata.Accuracy,
		table.Metadata.FileK, t, metaJSON)
	if err != nil {
		return fmt.Errorf("failed to insert zero table %q: %w", name, err)
	}

	tableID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get zero table id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO zeros (table_id, n, gamma, weight) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare zero insert: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			slog.Warn("Failed to close statement", "error", closeErr)
		}
	}()

	for _, z := range table.Zeros {
		if _, err = stmt.ExecContext(ctx, tableID, z.Index, z.Gamma.Text, z.Weight.Text); err != nil {
			return fmt.Errorf("failed to insert zero n=%d: %w", z.Index, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit zero table %q: %w", name, err)
	}

	slog.Debug("saved zero table", "name", name, "zeros", len(table.Zeros))
	return nil
}

// LoadZeroTable returns the named table ordered by index. A positive limit
// keeps only the first limit zeros.
func (s *SQLiteStorage) LoadZeroTable(ctx context.Context, name string, limit int) (*model.ZeroTable, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	var (
		tableID  int64
		t        sql.NullFloat64
		metaJSON sql.NullString
		table    model.ZeroTable
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, version, accuracy, k, t, meta_json
		FROM zero_tables WHERE name = ?`, name).
		Scan(&tableID, &table.Metadata.Source, &table.Metadata.Version, &table.Metadata.Accuracy,
			&table.Metadata.FileK, &t, &metaJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query zero table %q: %w", name, err)
	}

	if t.Valid {
		table.Metadata.T = &t.Float64
	}
	if metaJSON.Valid {
		if err := json.Unmarshal([]byte(metaJSON.String), &table.Metadata.FileMeta); err != nil {
			return nil, fmt.Errorf("failed to decode metadata of zero table %q: %w", name, err)
		}
	}

	query := `SELECT n, gamma, weight FROM zeros WHERE table_id = ? ORDER BY n`
	args := []any{tableID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query zeros of %q: %w", name, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("Failed to close rows", "error", closeErr)
		}
	}()

	for rows.Next() {
		var (
			z             model.ZetaZero
			gamma, weight string
		)
		if err := rows.Scan(&z.Index, &gamma, &weight); err != nil {
			return nil, fmt.Errorf("failed to scan zero: %w", err)
		}
		if z.Gamma, err = model.ParseDecimal(gamma); err != nil {
			return nil, fmt.Errorf("zero n=%d: %w", z.Index, err)
		}
		if z.Weight, err = model.ParseDecimal(weight); err != nil {
			return nil, fmt.Errorf("zero n=%d: %w", z.Index, err)
		}
		table.Zeros = append(table.Zeros, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating zeros: %w", err)
	}

	table.UpdateRanges()
	return &table, nil
}

// ListZeroTables returns every cached table, newest first.
func (s *SQLiteStorage) ListZeroTables(ctx context.Context) ([]model.ZeroTableInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT zt.name, zt.source, zt.version, zt.accuracy, zt.imported_at,
		       (SELECT COUNT(*) FROM zeros z WHERE z.table_id = zt.id)
		FROM zero_tables zt
		ORDER BY zt.imported_at DESC, zt.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list zero tables: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("Failed to close rows", "error", closeErr)
		}
	}()

	var infos []model.ZeroTableInfo
	for rows.Next() {
		var info model.ZeroTableInfo
		if err := rows.Scan(&info.Name, &info.Source, &info.Version, &info.Accuracy,
			&info.ImportedAt, &info.Count); err != nil {
			return nil, fmt.Errorf("failed to scan zero table: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating zero tables: %w", err)
	}
	return infos, nil
}

// DeleteZeroTable removes the named table and its zeros.
func (s *SQLiteStorage) DeleteZeroTable(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM zero_tables WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete zero table %q: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return nil
}
