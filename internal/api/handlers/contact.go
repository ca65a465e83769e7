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

type ContactHandler struct {
	contactService service.ContactService
	validator      *validator.Validate
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService, validator: validator.New()}
}

// CreateContact godoc
//	@Summary		Add a delivery contact
//	@Description	Stores an address and phone number that orders can be shipped to.
//	@Tags			Contacts
//	@Accept			json
//	@Produce		json
//	@Param			contact	body		models.CreateContactRequest	true	"Contact details"
//	@Success		201		{object}	models.Contact				"Contact created"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/contacts [post]
func (h *ContactHandler) CreateContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized contact creation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.CreateContactRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid contact input")
			return
		}

		contact, err := h.contactService.CreateContact(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to create contact", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Contact created", slog.String("contactId", contact.ID.String()))
		response.Success(w, http.StatusCreated, contact)
	}
}

// ListContacts godoc
//	@Summary		List delivery contacts
//	@Tags			Contacts
//	@Produce		json
//	@Success		200	{array}		models.Contact			"Contacts of the current user"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/contacts [get]
func (h *ContactHandler) ListContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized contact list attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		contacts, err := h.contactService.ListContacts(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to list contacts", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, contacts)
	}
}
