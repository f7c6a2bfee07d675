package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/gasops-dashboard/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) LoadDocuments(ctx context.Context, stationIDs []uuid.UUID) ([]model.Document, error) {
	if len(stationIDs) == 0 {
		return nil, nil
	}
	var docs []model.Document
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			d.id,
			d.station_id,
			COALESCE(s.name, '') AS station_name,
			d.doc_type_id,
			d.doc_number,
			d.issue_date,
			d.expiry_date,
			COALESCE(d.description, '') AS description
		FROM station_documents d
		LEFT JOIN stations s ON s.id = d.station_id
		WHERE d.station_id = ANY(?)
		ORDER BY d.station_id, d.expiry_date NULLS LAST
	`, stationIDs).Scan(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepository) LoadDocumentTypes(ctx context.Context) (map[uuid.UUID]string, error) {
	var rows []model.DocumentType
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, label
		FROM document_types
		ORDER BY label ASC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	types := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		types[row.ID] = row.Label
	}
	return types, nil
}
