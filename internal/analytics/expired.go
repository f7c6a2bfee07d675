package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/gasops-dashboard/internal/model"
	"github.com/nurpe/gasops-dashboard/internal/period"
)

// ExpiredDocuments lists every station document whose expiry date lies
// strictly before today. Documents without an expiry date never expire. The
// doc type id resolves to its label through the lookup; an unknown id keeps
// the raw id string. Grouped per station, station groups kept adjacent.
func ExpiredDocuments(documents []model.Document, docTypes map[uuid.UUID]string, asOf time.Time) []model.ExpiredDocument {
	today := period.DateOnly(asOf)

	var result []model.ExpiredDocument
	for _, doc := range documents {
		if doc.ExpiryDate == nil {
			continue
		}
		expiry := period.DateOnly(*doc.ExpiryDate)
		if !expiry.Before(today) {
			continue
		}

		label, ok := docTypes[doc.DocTypeID]
		if !ok {
			label = doc.DocTypeID.String()
		}

		result = append(result, model.ExpiredDocument{
			StationID:   doc.StationID,
			StationName: doc.StationName,
			DocType:     label,
			DocNumber:   doc.DocNumber,
			ExpiryDate:  expiry,
			DaysOverdue: int(today.Sub(expiry).Hours() / 24),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StationID.String() < result[j].StationID.String()
	})
	return result
}
