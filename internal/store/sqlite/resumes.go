package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/applytrackapp/applytrack-server/internal/domain"
	"github.com/applytrackapp/applytrack-server/internal/store"
)

// resumeColumns is the ordered list of columns selected in resume queries.
// Must match the scan order in scanResume.
const resumeColumns = `id, created_at, updated_at, position_id, kind, title,
	content, file_path, file_name, file_size`

// scanResume scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.ResumeVersion.
func scanResume(scanner interface{ Scan(dest ...any) error }) (*domain.ResumeVersion, error) {
	var r domain.ResumeVersion

	var (
		createdAt string
		updatedAt string
		kind      string
		content   sql.NullString
		filePath  sql.NullString
		fileName  sql.NullString
		fileSize  sql.NullInt64
	)

	err := scanner.Scan(
		&r.ID,
		&createdAt,
		&updatedAt,
		&r.PositionID,
		&kind,
		&r.Title,
		&content,
		&filePath,
		&fileName,
		&fileSize,
	)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	r.Kind = domain.ResumeKind(kind)
	r.Content = stringPtr(content)
	r.FilePath = stringPtr(filePath)
	r.FileName = stringPtr(fileName)
	r.FileSize = int64Ptr(fileSize)

	return &r, nil
}

// CreateResumeWithMetadata inserts a resume row and its metadata row as a
// single transaction. If either insert fails, nothing is persisted — a
// reader can never observe a resume without metadata.
func (s *Store) CreateResumeWithMetadata(ctx context.Context, resume *domain.ResumeVersion, meta *domain.ResumeMetadata) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO resumes (id, created_at, updated_at, position_id, kind, title,
				content, file_path, file_name, file_size)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			resume.ID,
			formatTime(resume.CreatedAt),
			formatTime(resume.UpdatedAt),
			resume.PositionID,
			string(resume.Kind),
			resume.Title,
			nullableString(resume.Content),
			nullableString(resume.FilePath),
			nullableString(resume.FileName),
			nullableInt64(resume.FileSize),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return store.ErrAlreadyExists
			}
			return err
		}

		return insertMetadata(ctx, tx, meta)
	})
}

// GetResume retrieves a resume by ID, without metadata or position attached.
func (s *Store) GetResume(ctx context.Context, id string) (*domain.ResumeVersion, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = ?`, id)

	r, err := scanResume(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListResumesByPosition returns all resumes under a position, newest
// first, each with its metadata attached.
func (s *Store) ListResumesByPosition(ctx context.Context, positionID string) ([]*domain.ResumeVersion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resumeColumns+` FROM resumes
		 WHERE position_id = ?
		 ORDER BY created_at DESC`, positionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resumes []*domain.ResumeVersion
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, r := range resumes {
		meta, err := s.GetMetadataByResume(ctx, r.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		r.Metadata = meta
	}

	return resumes, nil
}

// UpdateResume persists title/content changes to a resume.
func (s *Store) UpdateResume(ctx context.Context, resume *domain.ResumeVersion) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE resumes SET updated_at = ?, title = ?, content = ?
		WHERE id = ?`,
		formatTime(resume.UpdatedAt),
		resume.Title,
		nullableString(resume.Content),
		resume.ID,
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

// DeleteResumeCascade removes a resume, its metadata, and all its
// application records in one transaction. The store has no native
// cascade; the multi-delete inside a single unit is the contract.
func (s *Store) DeleteResumeCascade(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM applications WHERE resume_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM resume_metadata WHERE resume_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM resumes WHERE id = ?`, id)
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
	})
}
