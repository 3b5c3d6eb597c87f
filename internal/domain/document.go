package domain

import "time"

// DocumentType classifies a trip attachment.
type DocumentType string

const (
	DocInvoice  DocumentType = "invoice"
	DocWaybill  DocumentType = "waybill"
	DocContract DocumentType = "contract"
	DocOther    DocumentType = "other"
)

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	switch t {
	case DocInvoice, DocWaybill, DocContract, DocOther:
		return true
	}
	return false
}

// Document is a file attached to a trip. URI is an opaque locator produced by
// the file storage provider — the store never interprets it.
type Document struct {
	ID         string       `json:"id"`
	TripID     string       `json:"trip_id"`
	Name       string       `json:"name"`
	Type       DocumentType `json:"type"`
	URI        string       `json:"uri"`
	UploadDate time.Time    `json:"upload_date"`
	Notes      string       `json:"notes"`
}
