package cart

import (
	"net/http"

	cartdto "github.com/drinkshop/drinkshop-backend/api/controllers/cart/dto"
	"github.com/drinkshop/drinkshop-backend/api/responses"
	"github.com/drinkshop/drinkshop-backend/api/validators"
	cartsvc "github.com/drinkshop/drinkshop-backend/internal/cart"
	"github.com/drinkshop/drinkshop-backend/pkg/db/models"
	pkgerrors "github.com/drinkshop/drinkshop-backend/pkg/errors"
	"github.com/drinkshop/drinkshop-backend/pkg/logger"
)

// DrinkIDParam is the route parameter naming a cart line.
const DrinkIDParam = "drinkId"

func serviceUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
}

// CartSummary returns every line with unit and price totals.
func CartSummary(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg)
			return
		}

		sum, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newSummaryResponse(sum))
	}
}

// CartCheckItem answers whether a drink is in the cart: zero or one rows.
func CartCheckItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg)
			return
		}

		id, err := validators.ParsePathID(r, DrinkIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.CheckInCart(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newDrinkResponses(rows))
	}
}

// CartInsertItem adds a new line; a duplicate id is rejected with 409.
func CartInsertItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg)
			return
		}

		var payload cartdto.DrinkRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		drink := drinkFromRequest(payload)
		if err := svc.Insert(r.Context(), &drink); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newDrinkResponse(drink))
	}
}

// CartAddItem inserts the drink or bumps the quantity of the stored line.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg)
			return
		}

		var payload cartdto.AddToCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stored, err := svc.AddToCart(r.Context(), drinkFromAdd(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newDrinkResponse(*stored))
	}
}

// CartUpdateItem replaces the line named by the route.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg)
			return
		}

		id, err := validators.ParsePathID(r, DrinkIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartdto.UpdateDrinkRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		drink := drinkFromUpdate(id, payload)
		if err := svc.Update(r.Context(), &drink); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Read back so the response carries the stored timestamps.
		rows, err := svc.CheckInCart(r.Context(), id)
		if err == nil && len(rows) == 1 {
			drink = rows[0]
		}

		responses.WriteSuccess(w, newDrinkResponse(drink))
	}
}

// CartDeleteItem removes the line named by the route. Unknown ids still answer 204.
func CartDeleteItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg)
			return
		}

		id, err := validators.ParsePathID(r, DrinkIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), &models.Drink{ID: id}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}

// CartClear empties the cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg)
			return
		}

		if err := svc.DeleteAll(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}
