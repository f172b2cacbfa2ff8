package cart

import (
	"fmt"
	"strings"

	"github.com/drinkshop/drinkshop-backend/pkg/db/models"
	pkgerrors "github.com/drinkshop/drinkshop-backend/pkg/errors"
)

const (
	maxNameLength = 120
	// maxQuantity bounds a single line, including quantities accumulated by AddToCart.
	maxQuantity = 9999
)

// validateDrink trims the name in place and reports every invalid field at once.
func validateDrink(drink *models.Drink) error {
	if drink == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "drink is required")
	}

	details := map[string]string{}
	if drink.ID <= 0 {
		details["id"] = "must be greater than 0"
	}

	drink.Name = strings.TrimSpace(drink.Name)
	switch {
	case drink.Name == "":
		details["name"] = "is required"
	case len([]rune(drink.Name)) > maxNameLength:
		details["name"] = "must be at most 120 characters"
	}

	if drink.Price.IsNegative() {
		details["price"] = "must be non-negative"
	} else if !drink.Price.Equal(drink.Price.Round(2)) {
		details["price"] = "must have at most two decimal places"
	}

	switch {
	case drink.Quantity < 1:
		details["quantity"] = "must be at least 1"
	case drink.Quantity > maxQuantity:
		details["quantity"] = fmt.Sprintf("must be at most %d", maxQuantity)
	}

	drink.ImageURL = strings.TrimSpace(drink.ImageURL)

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid drink").WithDetails(details)
	}
	return nil
}
