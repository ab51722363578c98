package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Location types.
const (
	LocationTypeHome      = "home"
	LocationTypeWork      = "work"
	LocationTypeOffice    = "office"
	LocationTypeBranch    = "branch"
	LocationTypeWarehouse = "warehouse"
	LocationTypeOther     = "other"
)

// Location is a user-owned address record. At most one location per user is
// primary; setting a new primary demotes the previous one.
type Location struct {
	ID           string
	UserID       string
	LocationName string
	Address      string
	City         string
	State        string
	Country      string
	PostalCode   string
	Latitude     *decimal.Decimal // DECIMAL(10,8), range [-90, 90]
	Longitude    *decimal.Decimal // DECIMAL(11,8), range [-180, 180]
	LocationType string           // home, work, office, branch, warehouse, other
	IsPrimary    bool
	IsActive     bool
	Phone        string
	Email        string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
