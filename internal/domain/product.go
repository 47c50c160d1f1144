package domain

import "strings"

// Product is a financial product as exchanged with the products API.
// Dates stay as the ISO strings the server sent.
type Product struct {
	ID           string `json:"id" db:"id" validate:"required,productid"`
	Name         string `json:"name" db:"name" validate:"required,min=6,max=100"`
	Description  string `json:"description" db:"description" validate:"required,min=10,max=200"`
	Logo         string `json:"logo" db:"logo" validate:"required"`
	DateRelease  string `json:"date_release" db:"date_release" validate:"required,isodate"`
	DateRevision string `json:"date_revision" db:"date_revision" validate:"required,isodate"`
}

// DateOnly drops the time-of-day part of an ISO-8601 timestamp.
func DateOnly(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}
