package cart

import (
	cartdto "github.com/drinkshop/drinkshop-backend/api/controllers/cart/dto"
	cartsvc "github.com/drinkshop/drinkshop-backend/internal/cart"
	"github.com/drinkshop/drinkshop-backend/pkg/db/models"
)

const moneyPlaces = 2

func newDrinkResponse(drink models.Drink) cartdto.DrinkResponse {
	return cartdto.DrinkResponse{
		ID:         drink.ID,
		Name:       drink.Name,
		Price:      drink.Price.StringFixed(moneyPlaces),
		Quantity:   drink.Quantity,
		ImageURL:   drink.ImageURL,
		Attributes: drink.Attributes,
		LineTotal:  drink.LineTotal().StringFixed(moneyPlaces),
		CreatedAt:  drink.CreatedAt,
		UpdatedAt:  drink.UpdatedAt,
	}
}

func newDrinkResponses(rows []models.Drink) []cartdto.DrinkResponse {
	out := make([]cartdto.DrinkResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, newDrinkResponse(row))
	}
	return out
}

func newSummaryResponse(sum cartsvc.Summary) cartdto.SummaryResponse {
	return cartdto.SummaryResponse{
		Items: newDrinkResponses(sum.Items),
		Lines: sum.Lines,
		Units: sum.Units,
		Total: sum.Total.StringFixed(moneyPlaces),
	}
}
