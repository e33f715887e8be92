package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is a person who books sessions with a consultant. Created on demand
// during booking; (ConsultantID, Email) is the identity.
type Client struct {
	ID           string `gorm:"type:uuid;primarykey" json:"id"`
	ConsultantID string `gorm:"type:uuid;not null;uniqueIndex:idx_client_identity,priority:1" json:"consultant_id"`
	Email        string `gorm:"size:255;not null;uniqueIndex:idx_client_identity,priority:2" json:"email"`
	Name         string `gorm:"size:200" json:"name"`
	Phone        string `gorm:"size:20" json:"phone"`

	TotalSessions   int             `gorm:"default:0" json:"total_sessions"`
	TotalAmountPaid decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_amount_paid"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return "client"
}
