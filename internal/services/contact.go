package service

import (
	"context"
	"strings"

	appErrors "github.com/aaravmahajanofficial/buyme/internal/errors"
	"github.com/aaravmahajanofficial/buyme/internal/models"
	repository "github.com/aaravmahajanofficial/buyme/internal/repositories"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type ContactService interface {
	CreateContact(ctx context.Context, userID uuid.UUID, req *models.CreateContactRequest) (*models.Contact, error)
	ListContacts(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error)
}

type contactService struct {
	repo   repository.ContactRepository
	policy *bluemonday.Policy
}

func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo, policy: bluemonday.StrictPolicy()}
}

// CreateContact strips any markup from the address fields before storing them.
func (s *contactService) CreateContact(ctx context.Context, userID uuid.UUID, req *models.CreateContactRequest) (*models.Contact, error) {
	contact := &models.Contact{
		ID:        uuid.New(),
		UserID:    userID,
		City:      s.clean(req.City),
		Street:    s.clean(req.Street),
		House:     s.clean(req.House),
		Structure: s.clean(req.Structure),
		Building:  s.clean(req.Building),
		Apartment: s.clean(req.Apartment),
		Phone:     req.Phone,
	}

	if contact.City == "" || contact.Street == "" {
		return nil, appErrors.BadRequestError("City and street must contain text")
	}

	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, appErrors.DatabaseError("Failed to create contact").WithError(err)
	}

	return contact, nil
}

func (s *contactService) ListContacts(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error) {
	contacts, err := s.repo.ListContactsByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch contacts").WithError(err)
	}

	return contacts, nil
}

func (s *contactService) clean(value string) string {
	return strings.TrimSpace(s.policy.Sanitize(value))
}
