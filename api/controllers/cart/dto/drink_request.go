package cartdto

import "github.com/shopspring/decimal"

// DrinkRequest carries a full cart line as sent by the client.
type DrinkRequest struct {
	ID         int64             `json:"id" validate:"gt=0"`
	Name       string            `json:"name" validate:"required,max=120"`
	Price      decimal.Decimal   `json:"price"`
	Quantity   int               `json:"quantity" validate:"min=1,max=9999"`
	ImageURL   string            `json:"image_url" validate:"omitempty,max=2048"`
	Attributes map[string]string `json:"attributes,omitempty" validate:"omitempty,max=32"`
}

// UpdateDrinkRequest replaces a stored line; the id comes from the route.
type UpdateDrinkRequest struct {
	ID         int64             `json:"id,omitempty"`
	Name       string            `json:"name" validate:"required,max=120"`
	Price      decimal.Decimal   `json:"price"`
	Quantity   int               `json:"quantity" validate:"min=1,max=9999"`
	ImageURL   string            `json:"image_url" validate:"omitempty,max=2048"`
	Attributes map[string]string `json:"attributes,omitempty" validate:"omitempty,max=32"`
}

// AddToCartRequest is the product page "add to cart" payload. Quantity defaults to 1.
type AddToCartRequest struct {
	ID         int64             `json:"id" validate:"gt=0"`
	Name       string            `json:"name" validate:"required,max=120"`
	Price      decimal.Decimal   `json:"price"`
	Quantity   int               `json:"quantity,omitempty" validate:"omitempty,min=1,max=9999"`
	ImageURL   string            `json:"image_url" validate:"omitempty,max=2048"`
	Attributes map[string]string `json:"attributes,omitempty" validate:"omitempty,max=32"`
}
