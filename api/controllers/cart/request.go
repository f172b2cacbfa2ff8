package cart

import (
	cartdto "github.com/drinkshop/drinkshop-backend/api/controllers/cart/dto"
	"github.com/drinkshop/drinkshop-backend/pkg/db/models"
)

func drinkFromRequest(req cartdto.DrinkRequest) models.Drink {
	return models.Drink{
		ID:         req.ID,
		Name:       req.Name,
		Price:      req.Price,
		Quantity:   req.Quantity,
		ImageURL:   req.ImageURL,
		Attributes: req.Attributes,
	}
}

// drinkFromUpdate ignores any id in the body; the route id wins.
func drinkFromUpdate(id int64, req cartdto.UpdateDrinkRequest) models.Drink {
	return models.Drink{
		ID:         id,
		Name:       req.Name,
		Price:      req.Price,
		Quantity:   req.Quantity,
		ImageURL:   req.ImageURL,
		Attributes: req.Attributes,
	}
}

func drinkFromAdd(req cartdto.AddToCartRequest) models.Drink {
	return models.Drink{
		ID:         req.ID,
		Name:       req.Name,
		Price:      req.Price,
		Quantity:   req.Quantity,
		ImageURL:   req.ImageURL,
		Attributes: req.Attributes,
	}
}
