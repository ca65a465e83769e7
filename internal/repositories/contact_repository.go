package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/buyme/internal/models"
	"github.com/aaravmahajanofficial/buyme/internal/utils"
	"github.com/google/uuid"
)

type ContactRepository interface {
	CreateContact(ctx context.Context, contact *models.Contact) error
	GetContactByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	ListContactsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error)
}

type contactRepository struct {
	DB *sql.DB
}

func NewContactRepo(db *sql.DB) ContactRepository {
	return &contactRepository{DB: db}
}

const contactColumns = `id, user_id, city, street, house, structure, building, apartment, phone, created_at`

func (r *contactRepository) CreateContact(ctx context.Context, contact *models.Contact) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO contacts (id, user_id, city, street, house, structure, building, apartment, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at`

	err := r.DB.QueryRowContext(dbCtx, query, contact.ID, contact.UserID, contact.City, contact.Street,
		contact.House, contact.Structure, contact.Building, contact.Apartment, contact.Phone).Scan(&contact.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting contact: %w", err)
	}

	return nil
}

func (r *contactRepository) GetContactByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	contact, err := scanContact(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("querying contact: %w", err)
	}

	return contact, nil
}

func (r *contactRepository) ListContactsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*models.Contact{}

	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}

		contacts = append(contacts, contact)
	}

	return contacts, rows.Err()
}

func scanContact(row rowScanner) (*models.Contact, error) {
	contact := &models.Contact{}

	err := row.Scan(&contact.ID, &contact.UserID, &contact.City, &contact.Street, &contact.House,
		&contact.Structure, &contact.Building, &contact.Apartment, &contact.Phone, &contact.CreatedAt)
	if err != nil {
		return nil, err
	}

	return contact, nil
}
