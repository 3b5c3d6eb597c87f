package handler

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/mpetrenko/cargoflow/internal/domain"
)

// Request DTOs and their validation rules. Business rule validation lives at
// this boundary: the record store is permissive and persists what it
// receives, so anything that must be rejected has to be rejected here.

type clientRequest struct {
	Name          string `json:"name"`
	TaxID         string `json:"tax_id"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
}

func (r clientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, is.Email),
	)
}

func (r clientRequest) toDomain() domain.Client {
	return domain.Client{
		Name:          r.Name,
		TaxID:         r.TaxID,
		ContactPerson: r.ContactPerson,
		Phone:         r.Phone,
		Email:         r.Email,
		Address:       r.Address,
		Notes:         r.Notes,
	}
}

type tripRequest struct {
	Date          string  `json:"date"`
	ClientID      string  `json:"client_id"`
	StartLocation string  `json:"start_location"`
	EndLocation   string  `json:"end_location"`
	Cargo         string  `json:"cargo"`
	Driver        string  `json:"driver"`
	Vehicle       string  `json:"vehicle"`
	Status        string  `json:"status"`
	Income        float64 `json:"income"`
	Expenses      float64 `json:"expenses"`
	Notes         string  `json:"notes"`
}

func (r tripRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.Status, validation.Required, validation.In(
			string(domain.StatusPlanned),
			string(domain.StatusInProgress),
			string(domain.StatusCompleted),
			string(domain.StatusCancelled),
		)),
		validation.Field(&r.Income, validation.Min(0.0)),
		validation.Field(&r.Expenses, validation.Min(0.0)),
	)
}

func (r tripRequest) toDomain() domain.Trip {
	return domain.Trip{
		Date:          r.Date,
		ClientID:      r.ClientID,
		StartLocation: r.StartLocation,
		EndLocation:   r.EndLocation,
		Cargo:         r.Cargo,
		Driver:        r.Driver,
		Vehicle:       r.Vehicle,
		Status:        domain.TripStatus(r.Status),
		Income:        r.Income,
		Expenses:      r.Expenses,
		Notes:         r.Notes,
	}
}

// filterRequest mirrors domain.FilterOptions for the PUT /api/trips/filters body.
type filterRequest struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	ClientID      string `json:"client_id"`
	StartLocation string `json:"start_location"`
	EndLocation   string `json:"end_location"`
	Status        string `json:"status"`
}

func (r filterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StartDate, validation.Date("2006-01-02")),
		validation.Field(&r.EndDate, validation.Date("2006-01-02")),
		validation.Field(&r.Status, validation.In(
			string(domain.StatusPlanned),
			string(domain.StatusInProgress),
			string(domain.StatusCompleted),
			string(domain.StatusCancelled),
		)),
	)
}

func (r filterRequest) toDomain() domain.FilterOptions {
	return domain.FilterOptions{
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		ClientID:      r.ClientID,
		StartLocation: r.StartLocation,
		EndLocation:   r.EndLocation,
		Status:        domain.TripStatus(r.Status),
	}
}
