package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/applytrackapp/applytrack-server/internal/domain"
	"github.com/applytrackapp/applytrack-server/internal/store"
)

// metadataColumns is the ordered list of columns selected in metadata queries.
// Must match the scan order in scanMetadata.
const metadataColumns = `id, created_at, updated_at, resume_id, notes, tags`

// scanMetadata scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.ResumeMetadata.
func scanMetadata(scanner interface{ Scan(dest ...any) error }) (*domain.ResumeMetadata, error) {
	var m domain.ResumeMetadata

	var (
		createdAt string
		updatedAt string
		notes     sql.NullString
		tagsJSON  string
	)

	err := scanner.Scan(
		&m.ID,
		&createdAt,
		&updatedAt,
		&m.ResumeID,
		&notes,
		&tagsJSON,
	)
	if err != nil {
		return nil, err
	}

	m.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	m.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	m.Notes = stringPtr(notes)
	m.Tags, err = decodeTags(tagsJSON)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// encodeTags serializes a tag list as a JSON array for the tags column.
// A nil slice is stored as [] so every row round-trips to an empty list.
func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(data), nil
}

// decodeTags parses the tags column back into an ordered slice.
func decodeTags(raw string) ([]string, error) {
	tags := []string{}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return tags, nil
}

// execer abstracts *sql.DB and *sql.Tx for inserts that run both standalone
// and inside the resume-create transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertMetadata(ctx context.Context, ex execer, meta *domain.ResumeMetadata) error {
	tags, err := encodeTags(meta.Tags)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO resume_metadata (id, created_at, updated_at, resume_id, notes, tags)
		VALUES (?, ?, ?, ?, ?, ?)`,
		meta.ID,
		formatTime(meta.CreatedAt),
		formatTime(meta.UpdatedAt),
		meta.ResumeID,
		nullableString(meta.Notes),
		tags,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// CreateMetadata inserts a metadata row for a resume.
// Returns store.ErrAlreadyExists if the resume already has metadata.
func (s *Store) CreateMetadata(ctx context.Context, meta *domain.ResumeMetadata) error {
	return insertMetadata(ctx, s.db, meta)
}

// GetMetadataByResume retrieves the metadata row attached to a resume.
func (s *Store) GetMetadataByResume(ctx context.Context, resumeID string) (*domain.ResumeMetadata, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+metadataColumns+` FROM resume_metadata WHERE resume_id = ?`, resumeID)

	m, err := scanMetadata(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateMetadata persists notes/tags changes to a metadata row.
func (s *Store) UpdateMetadata(ctx context.Context, meta *domain.ResumeMetadata) error {
	tags, err := encodeTags(meta.Tags)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE resume_metadata SET updated_at = ?, notes = ?, tags = ?
		WHERE id = ?`,
		formatTime(meta.UpdatedAt),
		nullableString(meta.Notes),
		tags,
		meta.ID,
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

// SearchMetadataByTag returns every metadata record owned by the user whose
// tag list contains tag exactly, joined with its resume and position.
// Candidate rows are narrowed with a LIKE against the JSON encoding of the
// tag, so tags holding JSON-escaped characters still match the stored
// column. The prefilter only ever over-selects; the exact membership check
// happens in Go, so a tag that is a substring of another never matches.
func (s *Store) SearchMetadataByTag(ctx context.Context, ownerUserID, tag string) ([]*domain.TagSearchResult, error) {
	encodedTag, err := json.Marshal(tag)
	if err != nil {
		return nil, fmt.Errorf("marshal tag: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.created_at, m.updated_at, m.resume_id, m.notes, m.tags,
			r.id, r.created_at, r.updated_at, r.position_id, r.kind, r.title,
			r.content, r.file_path, r.file_name, r.file_size,
			p.id, p.created_at, p.updated_at, p.owner_user_id, p.name, p.description
		FROM resume_metadata m
		JOIN resumes r ON r.id = m.resume_id
		JOIN positions p ON p.id = r.position_id
		WHERE p.owner_user_id = ? AND m.tags LIKE ?
		ORDER BY r.created_at DESC`,
		ownerUserID, "%"+string(encodedTag)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.TagSearchResult
	for rows.Next() {
		var (
			m domain.ResumeMetadata
			r domain.ResumeVersion
			p domain.TargetPosition

			mCreated, mUpdated string
			mNotes             sql.NullString
			mTags              string

			rCreated, rUpdated string
			rKind              string
			rContent           sql.NullString
			rFilePath          sql.NullString
			rFileName          sql.NullString
			rFileSize          sql.NullInt64

			pCreated, pUpdated string
			pDescription       sql.NullString
		)

		err := rows.Scan(
			&m.ID, &mCreated, &mUpdated, &m.ResumeID, &mNotes, &mTags,
			&r.ID, &rCreated, &rUpdated, &r.PositionID, &rKind, &r.Title,
			&rContent, &rFilePath, &rFileName, &rFileSize,
			&p.ID, &pCreated, &pUpdated, &p.OwnerUserID, &p.Name, &pDescription,
		)
		if err != nil {
			return nil, err
		}

		m.Tags, err = decodeTags(mTags)
		if err != nil {
			return nil, err
		}
		if !m.HasTag(tag) {
			continue
		}

		if m.CreatedAt, err = parseTime(mCreated); err != nil {
			return nil, err
		}
		if m.UpdatedAt, err = parseTime(mUpdated); err != nil {
			return nil, err
		}
		m.Notes = stringPtr(mNotes)

		if r.CreatedAt, err = parseTime(rCreated); err != nil {
			return nil, err
		}
		if r.UpdatedAt, err = parseTime(rUpdated); err != nil {
			return nil, err
		}
		r.Kind = domain.ResumeKind(rKind)
		r.Content = stringPtr(rContent)
		r.FilePath = stringPtr(rFilePath)
		r.FileName = stringPtr(rFileName)
		r.FileSize = int64Ptr(rFileSize)

		if p.CreatedAt, err = parseTime(pCreated); err != nil {
			return nil, err
		}
		if p.UpdatedAt, err = parseTime(pUpdated); err != nil {
			return nil, err
		}
		p.Description = stringPtr(pDescription)

		results = append(results, &domain.TagSearchResult{
			Metadata: &m,
			Resume:   &r,
			Position: &p,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
