package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/buyme/internal/api/middleware"
	"github.com/aaravmahajanofficial/buyme/internal/errors"
	"github.com/aaravmahajanofficial/buyme/internal/models"
	service "github.com/aaravmahajanofficial/buyme/internal/services"
	"github.com/aaravmahajanofficial/buyme/internal/utils"
	"github.com/aaravmahajanofficial/buyme/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type BasketHandler struct {
	basketService service.BasketService
	validator     *validator.Validate
}

func NewBasketHandler(basketService service.BasketService) *BasketHandler {
	return &BasketHandler{basketService: basketService, validator: validator.New()}
}

// GetBasket godoc
//	@Summary		Get the current basket
//	@Description	Returns the authenticated user's basket with its active items and final price. An empty basket is created on first access.
//	@Tags			Basket
//	@Produce		json
//	@Success		200	{object}	models.Basket			"Current basket"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/basket [get]
func (h *BasketHandler) GetBasket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized basket access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		basket, err := h.basketService.GetBasket(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to get basket", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Basket retrieved", slog.Int("items", len(basket.Items)))
		response.Success(w, http.StatusOK, basket)
	}
}

// AddItem godoc
//	@Summary		Add a listing to the basket
//	@Description	Adds quantity units of a listing, or increases the existing item. Quantity defaults to 1. Fails with 409 when the basket would hold more than the listing's stock.
//	@Tags			Basket
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddBasketItemRequest	true	"Listing and quantity"
//	@Success		200		{object}	models.BasketChange			"Item added or increased"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error or shop not accepting orders"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Listing not found"
//	@Failure		409		{object}	response.ErrorResponse		"Requested quantity exceeds available stock"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/basket/items [post]
func (h *BasketHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized basket update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.AddBasketItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add basket item input")
			return
		}

		logger = logger.With(slog.Int64("listingId", req.ListingID))

		change, err := h.basketService.AddOrIncrease(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to add basket item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Basket item added", slog.Int("quantity", change.Item.Quantity))
		response.Success(w, http.StatusOK, change)
	}
}

// DecreaseItem godoc
//	@Summary		Decrease a basket item
//	@Description	Takes quantity units (default 1) off the item for the listing. The item is removed once nothing remains.
//	@Tags			Basket
//	@Accept			json
//	@Produce		json
//	@Param			listingId	path		int									true	"Listing ID"
//	@Param			item		body		models.DecreaseBasketItemRequest	false	"Quantity to remove"
//	@Success		200			{object}	models.BasketChange					"Item decreased or removed"
//	@Failure		400			{object}	response.ErrorResponse				"Invalid listing ID or quantity"
//	@Failure		401			{object}	response.ErrorResponse				"Authentication required"
//	@Failure		404			{object}	response.ErrorResponse				"Item not found in basket"
//	@Failure		500			{object}	response.ErrorResponse				"Internal server error"
//	@Security		BearerAuth
//	@Router			/basket/items/{listingId}/decrease [post]
func (h *BasketHandler) DecreaseItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized basket update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		listingID, err := utils.ParseInt64ID(r, "listingId")
		if err != nil {
			logger.Warn("Invalid listing id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.Int64("listingId", listingID))

		// the body is optional
		var req models.DecreaseBasketItemRequest
		if r.ContentLength != 0 && !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid decrease basket item input")
			return
		}

		change, err := h.basketService.Decrease(r.Context(), claims.UserID, listingID, req.Quantity)
		if err != nil {
			logger.Warn("Failed to decrease basket item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Basket item decreased", slog.Bool("removed", change.Removed))
		response.Success(w, http.StatusOK, change)
	}
}

// RemoveItem godoc
//	@Summary		Remove a basket item
//	@Description	Removes the item for the listing from the basket regardless of its quantity.
//	@Tags			Basket
//	@Produce		json
//	@Param			listingId	path		int						true	"Listing ID"
//	@Success		200			{object}	models.BasketChange		"Item removed"
//	@Failure		400			{object}	response.ErrorResponse	"Invalid listing ID"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404			{object}	response.ErrorResponse	"Item not found in basket"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/basket/items/{listingId} [delete]
func (h *BasketHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized basket update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		listingID, err := utils.ParseInt64ID(r, "listingId")
		if err != nil {
			logger.Warn("Invalid listing id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.Int64("listingId", listingID))

		change, err := h.basketService.RemoveItem(r.Context(), claims.UserID, listingID)
		if err != nil {
			logger.Warn("Failed to remove basket item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Basket item removed")
		response.Success(w, http.StatusOK, change)
	}
}
