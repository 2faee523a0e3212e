package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ibrahim/dbpulse/internal/models"
	"github.com/ibrahim/dbpulse/internal/repository"
)

// ClientInput carries the caller-settable client fields. Identity, the
// active flag, and timestamps are managed by the service and store.
type ClientInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	City      string
	Country   string
}

type ClientService struct {
	clients *repository.ClientRepository
	logger  *zap.Logger
}

func NewClientService(clients *repository.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{clients: clients, logger: logger}
}

func (s *ClientService) Create(ctx context.Context, in ClientInput) (*models.Client, error) {
	s.logger.Info("creating client", zap.String("email", in.Email))

	exists, err := s.clients.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &DuplicateError{Resource: "Client", Field: "email", Value: in.Email}
	}

	client := &models.Client{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		City:      in.City,
		Country:   in.Country,
		Active:    true,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		// Racing creates can slip past the exists check; the unique index
		// is authoritative.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &DuplicateError{Resource: "Client", Field: "email", Value: in.Email}
		}
		return nil, err
	}

	s.logger.Info("client created", zap.Uint("id", client.ID))
	return client, nil
}

func (s *ClientService) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "Client", ID: id}
		}
		return nil, err
	}
	return client, nil
}

func (s *ClientService) GetAll(ctx context.Context) ([]models.Client, error) {
	return s.clients.FindAll(ctx)
}

func (s *ClientService) Search(ctx context.Context, term string, page, size int) ([]models.Client, int64, error) {
	return s.clients.Search(ctx, term, page, size)
}

func (s *ClientService) Update(ctx context.Context, id uint, in ClientInput) (*models.Client, error) {
	s.logger.Info("updating client", zap.Uint("id", id))

	client, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Re-check uniqueness only when the email actually changes.
	if client.Email != in.Email {
		exists, err := s.clients.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &DuplicateError{Resource: "Client", Field: "email", Value: in.Email}
		}
	}

	client.FirstName = in.FirstName
	client.LastName = in.LastName
	client.Email = in.Email
	client.Phone = in.Phone
	client.Address = in.Address
	client.City = in.City
	client.Country = in.Country

	if err := s.clients.Save(ctx, client); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &DuplicateError{Resource: "Client", Field: "email", Value: in.Email}
		}
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Delete(ctx context.Context, id uint) error {
	s.logger.Info("deleting client", zap.Uint("id", id))

	exists, err := s.clients.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return &NotFoundError{Resource: "Client", ID: id}
	}
	return s.clients.Delete(ctx, id)
}

// Deactivate clears the active flag without removing the row.
func (s *ClientService) Deactivate(ctx context.Context, id uint) error {
	s.logger.Info("deactivating client", zap.Uint("id", id))

	client, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	client.Active = false
	return s.clients.Save(ctx, client)
}
