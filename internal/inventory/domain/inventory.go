package domain

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tair/warehouse-stock/pkg/idgen"
)

// InventoryItem is one physical stock record held at a location in up to three packaging tiers
type InventoryItem struct {
	ID              int64      `json:"id,string" gorm:"primaryKey;autoIncrement:false"`
	SKU             string     `json:"sku" gorm:"size:64;not null;index"`
	Location        string     `json:"location" gorm:"size:32;not null;index"`
	Level1Quantity  int        `json:"level1_quantity" gorm:"not null;default:0"`
	Level2Quantity  int        `json:"level2_quantity" gorm:"not null;default:0"`
	Level3Quantity  int        `json:"level3_quantity" gorm:"not null;default:0"`
	Level1Rate      int        `json:"level1_rate" gorm:"not null;default:0"`
	Level2Rate      int        `json:"level2_rate" gorm:"not null;default:0"`
	Level1Name      string     `json:"level1_name" gorm:"size:32"`
	Level2Name      string     `json:"level2_name" gorm:"size:32"`
	Level3Name      string     `json:"level3_name" gorm:"size:32"`
	LotNumber       string     `json:"lot_number,omitempty" gorm:"size:64"`
	ManufactureDate *time.Time `json:"manufacture_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// BeforeCreate assigns a snowflake id to new records
func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == 0 {
		i.ID = idgen.GenerateID()
	}
	return nil
}

// Quantities returns the three tier quantities of the item
func (i *InventoryItem) Quantities() Quantities {
	return Quantities{Level1: i.Level1Quantity, Level2: i.Level2Quantity, Level3: i.Level3Quantity}
}

// SetQuantities overwrites the three tier quantities of the item
func (i *InventoryItem) SetQuantities(q Quantities) {
	i.Level1Quantity = q.Level1
	i.Level2Quantity = q.Level2
	i.Level3Quantity = q.Level3
}

// IsEmpty reports whether all tiers are zero
func (i *InventoryItem) IsEmpty() bool {
	return i.Quantities().IsZero()
}

// Rate returns the conversion rate stamped on the item
func (i *InventoryItem) Rate() ConversionRate {
	return ConversionRate{
		SKU:        i.SKU,
		Level1Name: i.Level1Name,
		Level2Name: i.Level2Name,
		Level3Name: i.Level3Name,
		Level1Rate: i.Level1Rate,
		Level2Rate: i.Level2Rate,
	}
}

// HasRate reports whether the item carries its own configured multipliers
func (i *InventoryItem) HasRate() bool {
	return i.Level1Rate > 0 && i.Level2Rate > 0
}

// ApplyRate stamps rate multipliers and tier names onto the item
func (i *InventoryItem) ApplyRate(rate ConversionRate) {
	i.Level1Rate = rate.Level1Rate
	i.Level2Rate = rate.Level2Rate
	i.Level1Name = rate.Level1Name
	i.Level2Name = rate.Level2Name
	i.Level3Name = rate.Level3Name
}

// StockWriter persists stock mutations. Implementations are tried in order by the write chain.
type StockWriter interface {
	// UpdateQuantities writes next only if the record still holds expected
	UpdateQuantities(ctx context.Context, id int64, expected, next Quantities) error
	// UpdateLocation moves the record only if it is still stored at expectedLocation
	UpdateLocation(ctx context.Context, id int64, expectedLocation, location string) error
	// Delete removes the record; ErrReferenced if other rows still point at it
	Delete(ctx context.Context, id int64) error
}

// InventoryRepository defines the contract for inventory data access
type InventoryRepository interface {
	StockWriter
	Create(ctx context.Context, item *InventoryItem) error
	FindByID(ctx context.Context, id int64) (*InventoryItem, error)
	FindAll(ctx context.Context, limit, offset int) ([]InventoryItem, error)
	// FindActiveByLocation returns non-empty records stored at the slot in any accepted encoding
	FindActiveByLocation(ctx context.Context, location string) ([]InventoryItem, error)
}

// ConversionRateRepository defines the contract for conversion-rate data access
type ConversionRateRepository interface {
	FindBySKU(ctx context.Context, sku string) (*ConversionRate, error)
	FindAll(ctx context.Context) ([]ConversionRate, error)
	Save(ctx context.Context, rate *ConversionRate) error
}
