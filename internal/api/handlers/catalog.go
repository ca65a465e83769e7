package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/buyme/internal/api/middleware"
	"github.com/aaravmahajanofficial/buyme/internal/errors"
	"github.com/aaravmahajanofficial/buyme/internal/models"
	service "github.com/aaravmahajanofficial/buyme/internal/services"
	"github.com/aaravmahajanofficial/buyme/internal/utils"
	"github.com/aaravmahajanofficial/buyme/internal/utils/response"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListShops godoc
//	@Summary		List shops
//	@Description	Retrieves a paginated list of shops.
//	@Tags			Catalog
//	@Produce		json
//	@Param			page		query		int												false	"Page number (default: 1)"						minimum(1)
//	@Param			pageSize	query		int												false	"Items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Shop}	"List of shops"
//	@Failure		401			{object}	response.ErrorResponse							"Authentication required"
//	@Failure		500			{object}	response.ErrorResponse							"Internal server error"
//	@Security		BearerAuth
//	@Router			/shops [get]
func (h *CatalogHandler) ListShops() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		page, pageSize := utils.ParsePagination(r)

		shops, total, err := h.catalogService.ListShops(r.Context(), page, pageSize)
		if err != nil {
			logger.Error("Failed to list shops", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     shops,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// GetShop godoc
//	@Summary		Get a shop
//	@Description	Retrieves a shop with the categories it sells in.
//	@Tags			Catalog
//	@Produce		json
//	@Param			id	path		int						true	"Shop ID"
//	@Success		200	{object}	models.Shop				"Shop"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid shop ID"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Shop not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/shops/{id} [get]
func (h *CatalogHandler) GetShop() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseInt64ID(r, "id")
		if err != nil {
			logger.Warn("Invalid shop id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		shop, err := h.catalogService.GetShop(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get shop", slog.Int64("shopId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, shop)
	}
}

// ListListings godoc
//	@Summary		List product listings
//	@Description	Retrieves a paginated list of listings, optionally narrowed to one shop.
//	@Tags			Catalog
//	@Produce		json
//	@Param			shopId		query		int														false	"Only listings of this shop"
//	@Param			page		query		int														false	"Page number (default: 1)"						minimum(1)
//	@Param			pageSize	query		int														false	"Items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.ProductListing}	"List of listings"
//	@Failure		400			{object}	response.ErrorResponse									"Invalid shop ID"
//	@Failure		401			{object}	response.ErrorResponse									"Authentication required"
//	@Failure		500			{object}	response.ErrorResponse									"Internal server error"
//	@Security		BearerAuth
//	@Router			/listings [get]
func (h *CatalogHandler) ListListings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var filter models.ListingFilter

		if raw := r.URL.Query().Get("shopId"); raw != "" {
			shopID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || shopID <= 0 {
				logger.Warn("Invalid shopId filter", slog.String("shopId", raw))
				response.Error(w, errors.BadRequestError("Invalid shopId format"))
				return
			}

			filter.ShopID = &shopID
		}

		page, pageSize := utils.ParsePagination(r)

		listings, total, err := h.catalogService.ListListings(r.Context(), filter, page, pageSize)
		if err != nil {
			logger.Error("Failed to list listings", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     listings,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// GetListing godoc
//	@Summary		Get a product listing
//	@Description	Retrieves a listing with its current price and stock.
//	@Tags			Catalog
//	@Produce		json
//	@Param			id	path		int						true	"Listing ID"
//	@Success		200	{object}	models.ProductListing	"Listing"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid listing ID"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Listing not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/listings/{id} [get]
func (h *CatalogHandler) GetListing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseInt64ID(r, "id")
		if err != nil {
			logger.Warn("Invalid listing id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		listing, err := h.catalogService.GetListing(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get listing", slog.Int64("listingId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, listing)
	}
}
