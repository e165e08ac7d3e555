package models

import "strings"

// Customer is the order customer as sent by the platform.
type Customer struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// FullName returns "first last", the name that is screened and recorded.
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Valid reports whether both name parts are non-empty.
func (c Customer) Valid() bool {
	return strings.TrimSpace(c.FirstName) != "" && strings.TrimSpace(c.LastName) != ""
}

// Order holds the order fields the app reads. Everything else stays in the raw payload.
type Order struct {
	ID            string    `json:"id" validate:"required"`
	OrderNumber   string    `json:"orderNumber" validate:"required"`
	OrderCustomer *Customer `json:"orderCustomer" validate:"required"`
}
