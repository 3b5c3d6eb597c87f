package domain

// Client represents a counterparty organization the business hauls for.
// ID is assigned by the collection store on creation and is empty before
// the record has been persisted. Once assigned it never changes.
type Client struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TaxID         string `json:"tax_id"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
}
