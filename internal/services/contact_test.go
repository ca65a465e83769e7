package service_test

import (
	"context"
	"errors"
	"testing"

	appErrors "github.com/aaravmahajanofficial/buyme/internal/errors"
	"github.com/aaravmahajanofficial/buyme/internal/models"
	"github.com/aaravmahajanofficial/buyme/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/buyme/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestContactService_CreateContact(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success - Markup Is Stripped", func(t *testing.T) {
		// Arrange
		repo := mocks.NewContactRepository(t)
		svc := service.NewContactService(repo)

		req := &models.CreateContactRequest{
			City:      " Moscow ",
			Street:    "<b>Tverskaya</b>",
			House:     "<script>alert(1)</script>12",
			Apartment: "5",
			Phone:     "+79001234567",
		}

		repo.On("CreateContact", mock.Anything, mock.MatchedBy(func(c *models.Contact) bool {
			return c.UserID == userID && c.City == "Moscow" && c.Street == "Tverskaya"
		})).Return(nil).Once()

		// Act
		contact, err := svc.CreateContact(ctx, userID, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Tverskaya", contact.Street)
		assert.Equal(t, "12", contact.House)
		assert.Equal(t, "+79001234567", contact.Phone)
		assert.NotEqual(t, uuid.Nil, contact.ID)
	})

	t.Run("Failure - Only Markup", func(t *testing.T) {
		repo := mocks.NewContactRepository(t)
		svc := service.NewContactService(repo)

		req := &models.CreateContactRequest{City: "<i></i>", Street: "Main", Phone: "+79001234567"}

		contact, err := svc.CreateContact(ctx, userID, req)

		requireAppError(t, err, appErrors.ErrCodeBadRequest)
		assert.Nil(t, contact)
		repo.AssertNotCalled(t, "CreateContact", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		repo := mocks.NewContactRepository(t)
		svc := service.NewContactService(repo)

		repo.On("CreateContact", mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once()

		_, err := svc.CreateContact(ctx, userID, &models.CreateContactRequest{City: "Kazan", Street: "Baumana", Phone: "+79001234567"})

		requireAppError(t, err, appErrors.ErrCodeDatabaseError)
	})
}

func TestContactService_ListContacts(t *testing.T) {
	repo := mocks.NewContactRepository(t)
	svc := service.NewContactService(repo)
	userID := uuid.New()

	contacts := []*models.Contact{{ID: uuid.New(), UserID: userID, City: "Kazan"}}
	repo.On("ListContactsByUser", mock.Anything, userID).Return(contacts, nil).Once()

	result, err := svc.ListContacts(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, contacts, result)
}
