package domain

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ConversionRate is the per-SKU tier multiplier table.
// Level1Rate and Level2Rate count base units (pieces) per unit of that tier.
type ConversionRate struct {
	SKU        string    `json:"sku" gorm:"primaryKey;size:64"`
	Level1Name string    `json:"level1_name" gorm:"size:32;not null"`
	Level2Name string    `json:"level2_name" gorm:"size:32;not null"`
	Level3Name string    `json:"level3_name" gorm:"size:32;not null"`
	Level1Rate int       `json:"level1_rate" gorm:"not null"`
	Level2Rate int       `json:"level2_rate" gorm:"not null"`
	IsDefault  bool      `json:"is_default" gorm:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (ConversionRate) TableName() string {
	return "conversion_rates"
}

// TierRate returns the multiplier of tier t. Unconfigured (non-positive) rates count as 1.
func (r ConversionRate) TierRate(t Tier) int {
	var rate int
	switch t {
	case TierLevel1:
		rate = r.Level1Rate
	case TierLevel2:
		rate = r.Level2Rate
	default:
		return 1
	}
	if rate <= 0 {
		return 1
	}
	return rate
}

// TierName returns the display label of tier t
func (r ConversionRate) TierName(t Tier) string {
	var name string
	switch t {
	case TierLevel1:
		name = r.Level1Name
	case TierLevel2:
		name = r.Level2Name
	case TierLevel3:
		name = r.Level3Name
	}
	if name == "" {
		return t.String()
	}
	return name
}

// ForSKU returns a copy of the rate keyed to sku
func (r ConversionRate) ForSKU(sku string) ConversionRate {
	r.SKU = sku
	return r
}

// ConversionRateInput is a candidate rate record as submitted by configuration screens
type ConversionRateInput struct {
	SKU        string `json:"sku" validate:"required,max=64"`
	Level1Name string `json:"level1_name" validate:"required,max=32"`
	Level2Name string `json:"level2_name" validate:"required,max=32"`
	Level3Name string `json:"level3_name" validate:"required,max=32"`
	Level1Rate *int   `json:"level1_rate" validate:"required,gt=0"`
	Level2Rate *int   `json:"level2_rate" validate:"required,gt=0"`
}

// ToRate converts a validated input into a storable rate
func (in ConversionRateInput) ToRate() ConversionRate {
	rate := ConversionRate{
		SKU:        strings.TrimSpace(in.SKU),
		Level1Name: strings.TrimSpace(in.Level1Name),
		Level2Name: strings.TrimSpace(in.Level2Name),
		Level3Name: strings.TrimSpace(in.Level3Name),
	}
	if in.Level1Rate != nil {
		rate.Level1Rate = *in.Level1Rate
	}
	if in.Level2Rate != nil {
		rate.Level2Rate = *in.Level2Rate
	}
	return rate
}

// ValidationResult collects every problem found in a candidate record
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateConversionRate checks a candidate before it may be persisted.
// Problems are reported, never thrown.
func ValidateConversionRate(in ConversionRateInput) ValidationResult {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Level1Name = strings.TrimSpace(in.Level1Name)
	in.Level2Name = strings.TrimSpace(in.Level2Name)
	in.Level3Name = strings.TrimSpace(in.Level3Name)

	err := validate.Struct(in)
	if err == nil {
		return ValidationResult{IsValid: true}
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationResult{Errors: []string{err.Error()}}
	}

	result := ValidationResult{}
	for _, fe := range fieldErrs {
		result.Errors = append(result.Errors, describeFieldError(fe))
	}
	return result
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// RateResolver answers the conversion rate of a SKU and never fails
type RateResolver interface {
	GetRate(ctx context.Context, sku string) ConversionRate
}

// RateCache is an optional look-aside store for resolved rates
type RateCache interface {
	Get(ctx context.Context, sku string) (*ConversionRate, bool)
	Set(ctx context.Context, rate ConversionRate)
	Invalidate(ctx context.Context, sku string)
}

// EffectiveRate is the rate stamped on the item, or the resolved SKU rate when the item carries none
func EffectiveRate(ctx context.Context, resolver RateResolver, item *InventoryItem) ConversionRate {
	if item.HasRate() || resolver == nil {
		return item.Rate()
	}
	rate := resolver.GetRate(ctx, item.SKU)
	if item.Level1Name != "" {
		rate.Level1Name = item.Level1Name
	}
	if item.Level2Name != "" {
		rate.Level2Name = item.Level2Name
	}
	if item.Level3Name != "" {
		rate.Level3Name = item.Level3Name
	}
	return rate
}
