package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/applytrackapp/applytrack-server/internal/domain"
	"github.com/applytrackapp/applytrack-server/internal/store"
)

// applicationColumns is the ordered list of columns selected in application
// queries. Must match the scan order in scanApplication.
const applicationColumns = `id, created_at, updated_at, resume_id, company_name,
	position_title, apply_date, status, notes`

// scanApplication scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.ApplicationRecord.
func scanApplication(scanner interface{ Scan(dest ...any) error }) (*domain.ApplicationRecord, error) {
	var a domain.ApplicationRecord

	var (
		createdAt     string
		updatedAt     string
		positionTitle sql.NullString
		status        string
		notes         sql.NullString
	)

	err := scanner.Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
		&a.ResumeID,
		&a.CompanyName,
		&positionTitle,
		&a.ApplyDate,
		&status,
		&notes,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	a.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	a.PositionTitle = stringPtr(positionTitle)
	a.Status = domain.ApplicationStatus(status)
	a.Notes = stringPtr(notes)

	return &a, nil
}

// CreateApplication inserts a new application record.
func (s *Store) CreateApplication(ctx context.Context, app *domain.ApplicationRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (id, created_at, updated_at, resume_id, company_name,
			position_title, apply_date, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID,
		formatTime(app.CreatedAt),
		formatTime(app.UpdatedAt),
		app.ResumeID,
		app.CompanyName,
		nullableString(app.PositionTitle),
		app.ApplyDate,
		string(app.Status),
		nullableString(app.Notes),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetApplication retrieves an application record by ID.
func (s *Store) GetApplication(ctx context.Context, id string) (*domain.ApplicationRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)

	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListApplicationsByResume returns a resume's application records, most
// recent apply date first; ties break on creation time, newest first.
func (s *Store) ListApplicationsByResume(ctx context.Context, resumeID string) ([]*domain.ApplicationRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE resume_id = ?
		 ORDER BY apply_date DESC, created_at DESC`, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectApplications(rows)
}

// ListApplicationsByUser returns application records across every resume
// the user owns, optionally narrowed by status and an inclusive date range.
func (s *Store) ListApplicationsByUser(ctx context.Context, userID string, filter store.ApplicationFilter) ([]*domain.ApplicationRecord, error) {
	query := `
		SELECT a.id, a.created_at, a.updated_at, a.resume_id, a.company_name,
			a.position_title, a.apply_date, a.status, a.notes
		FROM applications a
		JOIN resumes r ON r.id = a.resume_id
		JOIN positions p ON p.id = r.position_id
		WHERE p.owner_user_id = ?`
	args := []any{userID}

	if filter.Status != "" {
		query += ` AND a.status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.DateFrom != "" {
		query += ` AND a.apply_date >= ?`
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		query += ` AND a.apply_date <= ?`
		args = append(args, filter.DateTo)
	}
	query += ` ORDER BY a.apply_date DESC, a.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectApplications(rows)
}

func collectApplications(rows *sql.Rows) ([]*domain.ApplicationRecord, error) {
	var apps []*domain.ApplicationRecord
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateApplication persists changes to an application record.
func (s *Store) UpdateApplication(ctx context.Context, app *domain.ApplicationRecord) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE applications SET updated_at = ?, company_name = ?, position_title = ?,
			apply_date = ?, status = ?, notes = ?
		WHERE id = ?`,
		formatTime(app.UpdatedAt),
		app.CompanyName,
		nullableString(app.PositionTitle),
		app.ApplyDate,
		string(app.Status),
		nullableString(app.Notes),
		app.ID,
	)
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

// DeleteApplication removes an application record.
func (s *Store) DeleteApplication(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id)
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

// GetApplicationStats aggregates the user's application records: total,
// per-status counts, and first/latest apply dates. A user with no records
// gets the zero shape — all counts zero, both dates nil.
func (s *Store) GetApplicationStats(ctx context.Context, userID string) (*domain.ApplicationStats, error) {
	stats := &domain.ApplicationStats{}

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.status, COUNT(*)
		FROM applications a
		JOIN resumes r ON r.id = a.resume_id
		JOIN positions p ON p.id = r.position_id
		WHERE p.owner_user_id = ?
		GROUP BY a.status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		switch domain.ApplicationStatus(status) {
		case domain.StatusApplied:
			stats.ByStatus.Applied = count
		case domain.StatusInterviewInvited:
			stats.ByStatus.InterviewInvited = count
		case domain.StatusRejected:
			stats.ByStatus.Rejected = count
		case domain.StatusOffered:
			stats.ByStatus.Offered = count
		}
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.Total == 0 {
		return stats, nil
	}

	var first, latest sql.NullString
	err = s.db.QueryRowContext(ctx, `
		SELECT MIN(a.apply_date), MAX(a.apply_date)
		FROM applications a
		JOIN resumes r ON r.id = a.resume_id
		JOIN positions p ON p.id = r.position_id
		WHERE p.owner_user_id = ?`, userID,
	).Scan(&first, &latest)
	if err != nil {
		return nil, err
	}
	stats.FirstApplyDate = stringPtr(first)
	stats.LatestApplyDate = stringPtr(latest)

	return stats, nil
}
