package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DrinkTableName is the cart table created by the first schema migration.
const DrinkTableName = "drink"

// Drink is one cart line. ID is chosen by the caller and is unique within the cart.
type Drink struct {
	ID         int64             `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name       string            `gorm:"column:name;not null" json:"name"`
	Price      decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Quantity   int               `gorm:"column:quantity;not null" json:"quantity"`
	ImageURL   string            `gorm:"column:image_url;not null;default:''" json:"image_url"`
	Attributes map[string]string `gorm:"column:attributes;type:text;serializer:json" json:"attributes,omitempty"`
	Seq        int64             `gorm:"column:seq;not null;index:drink_seq_idx" json:"-"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Drink) TableName() string {
	return DrinkTableName
}

// LineTotal returns price multiplied by quantity.
func (d Drink) LineTotal() decimal.Decimal {
	return d.Price.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// Clone returns a copy that shares no mutable state with d.
func (d Drink) Clone() Drink {
	out := d
	if d.Attributes != nil {
		out.Attributes = make(map[string]string, len(d.Attributes))
		for k, v := range d.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}
