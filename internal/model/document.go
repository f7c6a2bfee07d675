package model

import (
	"time"

	"github.com/google/uuid"
)

// Document is a per-station compliance artifact (license, certificate, permit).
// A nil ExpiryDate means the document never expires.
type Document struct {
	ID          uuid.UUID
	StationID   uuid.UUID
	StationName string
	DocTypeID   uuid.UUID
	DocNumber   string
	IssueDate   *time.Time
	ExpiryDate  *time.Time
	Description string
}

type DocumentType struct {
	ID    uuid.UUID
	Label string
}
