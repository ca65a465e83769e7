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
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications godoc
//	@Summary		List notifications
//	@Description	Retrieves the emails sent to the authenticated user's address, newest first.
//	@Tags			Notifications
//	@Produce		json
//	@Param			page		query		int														false	"Page number (default: 1)"						minimum(1)
//	@Param			pageSize	query		int														false	"Items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Notification}	"List of notifications"
//	@Failure		401			{object}	response.ErrorResponse									"Authentication required"
//	@Failure		500			{object}	response.ErrorResponse									"Internal server error"
//	@Security		BearerAuth
//	@Router			/notifications [get]
func (h *NotificationHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized notification list attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		page, pageSize := utils.ParsePagination(r)

		notifications, total, err := h.notificationService.ListNotifications(r.Context(), claims.Email, page, pageSize)
		if err != nil {
			logger.Error("Failed to list notifications", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Notifications listed", slog.Int("count", len(notifications)), slog.Int("total", total))
		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     notifications,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}
