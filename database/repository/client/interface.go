package clientRepo

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"naksha/models"
)

// ClientRepository persists booking clients, keyed by (consultant, email).
type ClientRepository interface {
	// FindOrCreate returns the existing client for (consultantID, email) or
	// creates one. Idempotent under concurrency: a create that loses the
	// unique-index race falls back to re-reading.
	FindOrCreate(ctx context.Context, consultantID, email, name, phone string) (*models.Client, error)

	GetByID(ctx context.Context, id string) (*models.Client, error)

	// IncrementSessionStats bumps the booked-session counter and lifetime
	// amount on a successful booking.
	IncrementSessionStats(ctx context.Context, clientID string, amount decimal.Decimal) error

	WithTx(tx *gorm.DB) ClientRepository
}

type gormClientRepo struct {
	db *gorm.DB
}

// NewGormClientRepo constructs a GORM-backed ClientRepository.
func NewGormClientRepo(db *gorm.DB) ClientRepository {
	return &gormClientRepo{db: db}
}
