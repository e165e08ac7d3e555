package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sanctionwatch/app-server/internal/apperrors"
)

var validate = validator.New()

// EventSource identifies the shop that sent a webhook or action.
type EventSource struct {
	URL        string `json:"url"`
	ShopID     string `json:"shopId" validate:"required"`
	AppVersion string `json:"appVersion"`
}

// OrderPlacedEvent is the checkout.order.placed webhook.
type OrderPlacedEvent struct {
	Source    EventSource     `json:"source"`
	Data      OrderPlacedData `json:"data"`
	Timestamp int64           `json:"timestamp"`

	// Order is decoded from Data.Payload.Order.
	Order Order `json:"-" validate:"-"`
}

type OrderPlacedData struct {
	Event   string             `json:"event"`
	Payload OrderPlacedPayload `json:"payload"`
}

type OrderPlacedPayload struct {
	Order json.RawMessage `json:"order"`
}

// RawOrder returns the order exactly as it arrived.
func (e *OrderPlacedEvent) RawOrder() json.RawMessage {
	return e.Data.Payload.Order
}

// CheckSanctionEvent is the action payload asking to screen specific orders.
type CheckSanctionEvent struct {
	Source EventSource       `json:"source"`
	Data   CheckSanctionData `json:"data"`
	Meta   json.RawMessage   `json:"meta,omitempty"`
}

type CheckSanctionData struct {
	IDs    []string `json:"ids" validate:"required,min=1,dive,required"`
	Entity string   `json:"entity"`
	Action string   `json:"action"`
}

// ActionEvent is the envelope shared by action buttons and lifecycle events.
type ActionEvent struct {
	Source EventSource `json:"source"`
}

// ParseOrderPlacedEvent decodes and validates an order-placed webhook body.
func ParseOrderPlacedEvent(body []byte) (*OrderPlacedEvent, error) {
	var evt OrderPlacedEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, apperrors.MalformedPayload("invalid order-placed payload", err)
	}
	if err := validate.Struct(&evt); err != nil {
		return nil, validationError("invalid order-placed payload", err)
	}

	raw := evt.RawOrder()
	if len(raw) == 0 || string(raw) == "null" {
		return nil, apperrors.MalformedPayload("order-placed payload has no order", nil)
	}
	if err := json.Unmarshal(raw, &evt.Order); err != nil {
		return nil, apperrors.MalformedPayload("invalid order in order-placed payload", err)
	}
	if err := ValidateOrder(&evt.Order); err != nil {
		return nil, err
	}

	return &evt, nil
}

// ParseCheckSanctionEvent decodes and validates a check-sanction body.
func ParseCheckSanctionEvent(body []byte) (*CheckSanctionEvent, error) {
	var evt CheckSanctionEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, apperrors.MalformedPayload("invalid check-sanction payload", err)
	}
	if err := validate.Struct(&evt); err != nil {
		return nil, validationError("invalid check-sanction payload", err)
	}
	return &evt, nil
}

// ParseActionEvent decodes the source of an action or lifecycle body.
func ParseActionEvent(body []byte) (*ActionEvent, error) {
	var evt ActionEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, apperrors.MalformedPayload("invalid action payload", err)
	}
	if err := validate.Struct(&evt); err != nil {
		return nil, validationError("invalid action payload", err)
	}
	return &evt, nil
}

// ValidateOrder checks the fields the sanction flow depends on, including
// an order returned by the platform search.
func ValidateOrder(o *Order) error {
	if err := validate.Struct(o); err != nil {
		return validationError("invalid order", err)
	}
	if !o.OrderCustomer.Valid() {
		return apperrors.MalformedPayload("order customer has no name", nil)
	}
	return nil
}

func validationError(msg string, err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.MalformedPayload(msg, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s:%s", fe.Namespace(), fe.Tag()))
	}
	return apperrors.MalformedPayload(msg+" ("+strings.Join(fields, ", ")+")", err)
}
