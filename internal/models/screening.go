package models

import "encoding/json"

// PersonEntity is the only entity type the screening service is asked about.
const PersonEntity = "Person"

// ScreeningQuery is one entry of the screening request body.
type ScreeningQuery struct {
	Type string             `json:"type"`
	Data ScreeningQueryData `json:"data"`
}

type ScreeningQueryData struct {
	Name string `json:"name"`
}

// NewPersonQuery builds the query for a customer.
func NewPersonQuery(c Customer) ScreeningQuery {
	return ScreeningQuery{
		Type: PersonEntity,
		Data: ScreeningQueryData{Name: c.FullName()},
	}
}

// ScreeningResult is the verdict of the screening service. Raw keeps the
// response body exactly as received.
type ScreeningResult struct {
	Hit bool
	Raw json.RawMessage
}
