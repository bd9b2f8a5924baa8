// filepath: internal/repository/utils.go
package repository

import (
	"database/sql"
	"encoding/json"

	"mpvshelf/internal/logging"
	"mpvshelf/internal/models"
)

// videoSnapshotJSON serializes an optional denormalized OsVideo pointer for
// storage in a TEXT column.
func videoSnapshotJSON(v *models.OsVideo) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func videoSnapshotFromJSON(s sql.NullString) *models.OsVideo {
	if !s.Valid || s.String == "" {
		return nil
	}
	var v models.OsVideo
	if err := json.Unmarshal([]byte(s.String), &v); err != nil {
		logging.Log.Warnf("discarding unreadable last_watched_video snapshot: %v", err)
		return nil
	}
	return &v
}

func metadataJSON(m *models.FileMetadata) (sql.NullString, error) {
	if m == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func metadataFromJSON(s sql.NullString) *models.FileMetadata {
	if !s.Valid || s.String == "" {
		return nil
	}
	var m models.FileMetadata
	if err := json.Unmarshal([]byte(s.String), &m); err != nil {
		logging.Log.Warnf("discarding unreadable file metadata: %v", err)
		return nil
	}
	return &m
}

func nullStr(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func strPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
