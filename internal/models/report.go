package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SanctionReport is one recorded sanctions hit for an order.
type SanctionReport struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID      string    `gorm:"column:order_id;not null" json:"order_id"`
	ShopID       string    `gorm:"column:shop_id;not null;index" json:"shop_id"`
	CustomerName string    `gorm:"column:customer_name;not null" json:"customer_name"`
	CreatedAt    time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (SanctionReport) TableName() string { return "reports" }

// BeforeCreate sets a UUID when none was assigned.
func (r *SanctionReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
