package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/applytrackapp/applytrack-server/internal/domain"
	"github.com/applytrackapp/applytrack-server/internal/store"
)

// positionColumns is the ordered list of columns selected in position queries.
// Must match the scan order in scanPosition.
const positionColumns = `id, created_at, updated_at, owner_user_id, name, description`

// scanPosition scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.TargetPosition.
func scanPosition(scanner interface{ Scan(dest ...any) error }) (*domain.TargetPosition, error) {
	var p domain.TargetPosition

	var (
		createdAt   string
		updatedAt   string
		description sql.NullString
	)

	err := scanner.Scan(
		&p.ID,
		&createdAt,
		&updatedAt,
		&p.OwnerUserID,
		&p.Name,
		&description,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	p.Description = stringPtr(description)

	return &p, nil
}

// CreatePosition inserts a new target position.
// Returns store.ErrAlreadyExists when the owner already has a position
// with the same name.
func (s *Store) CreatePosition(ctx context.Context, pos *domain.TargetPosition) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO positions (id, created_at, updated_at, owner_user_id, name, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		pos.ID,
		formatTime(pos.CreatedAt),
		formatTime(pos.UpdatedAt),
		pos.OwnerUserID,
		pos.Name,
		nullableString(pos.Description),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetPosition retrieves a position by ID.
func (s *Store) GetPosition(ctx context.Context, id string) (*domain.TargetPosition, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+positionColumns+` FROM positions WHERE id = ?`, id)

	p, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPositionsByOwner returns the owner's positions, newest first.
func (s *Store) ListPositionsByOwner(ctx context.Context, ownerUserID string) ([]*domain.TargetPosition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+positionColumns+` FROM positions
		 WHERE owner_user_id = ?
		 ORDER BY created_at DESC`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []*domain.TargetPosition
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return positions, nil
}

// UpdatePosition persists name/description changes to a position.
// Returns store.ErrAlreadyExists on a name collision and
// store.ErrNotFound if the row no longer exists.
func (s *Store) UpdatePosition(ctx context.Context, pos *domain.TargetPosition) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE positions SET updated_at = ?, name = ?, description = ?
		WHERE id = ?`,
		formatTime(pos.UpdatedAt),
		pos.Name,
		nullableString(pos.Description),
		pos.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeletePosition removes a position row. The caller is responsible for
// ensuring no resumes reference it; the foreign key enforces it as a
// backstop.
func (s *Store) DeletePosition(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM positions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// PositionNameTaken reports whether the owner already has a position with
// this exact name, excluding excludeID (pass "" when creating).
func (s *Store) PositionNameTaken(ctx context.Context, ownerUserID, name, excludeID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM positions
		WHERE owner_user_id = ? AND name = ? AND id != ?`,
		ownerUserID, name, excludeID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountResumesForPosition returns the number of resume versions that
// reference the position.
func (s *Store) CountResumesForPosition(ctx context.Context, positionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM resumes WHERE position_id = ?`, positionID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
