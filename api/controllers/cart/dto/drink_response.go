package cartdto

import "time"

// DrinkResponse is a cart line as exposed through the API. Money is rendered with two
// decimals.
type DrinkResponse struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Price      string            `json:"price"`
	Quantity   int               `json:"quantity"`
	ImageURL   string            `json:"image_url"`
	Attributes map[string]string `json:"attributes,omitempty"`
	LineTotal  string            `json:"line_total"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// SummaryResponse backs the cart screen and the badge count.
type SummaryResponse struct {
	Items []DrinkResponse `json:"items"`
	Lines int             `json:"lines"`
	Units int             `json:"units"`
	Total string          `json:"total"`
}
