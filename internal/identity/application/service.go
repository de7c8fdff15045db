package application

import (
	"context"
	"errors"
	"strconv"
	"time"

	"coopweigh/internal/auth"
	"coopweigh/internal/identity/domain"
)

// WorkerStore is what the service needs from persistence.
type WorkerStore interface {
	GetByCPF(ctx context.Context, cpf string) (*domain.WorkerProfile, error)
	GetByID(ctx context.Context, id int64) (*domain.WorkerProfile, error)
	Update(ctx context.Context, id int64, name, email *string, passwordHash []byte) (*domain.WorkerProfile, error)
}

// Service implements login and profile operations.
type Service struct {
	store      WorkerStore
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// NewService constructs the identity service.
func NewService(store WorkerStore, jwtSecret []byte, tokenTTL time.Duration, bcryptCost int) (*Service, error) {
	if store == nil {
		return nil, errors.New("identity service: nil store")
	}
	if len(jwtSecret) == 0 {
		return nil, errors.New("identity service: empty jwt secret")
	}
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}
	return &Service{store: store, jwtSecret: jwtSecret, tokenTTL: tokenTTL, bcryptCost: bcryptCost}, nil
}

// Login checks CPF/password and issues an access token. Unknown CPF and wrong
// password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, rawCPF, password string) (string, *domain.WorkerProfile, error) {
	cpf, err := domain.NormalizeCPF(rawCPF)
	if err != nil {
		return "", nil, err
	}
	if password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	profile, err := s.store.GetByCPF(ctx, cpf)
	if err != nil {
		if errors.Is(err, domain.ErrWorkerNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := auth.ComparePassword(profile.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrWrongPassword) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	token, err := auth.SignJWT(strconv.FormatInt(profile.ID, 10), s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

// Profile loads the authenticated worker's profile.
func (s *Service) Profile(ctx context.Context, workerID int64) (*domain.WorkerProfile, error) {
	return s.store.GetByID(ctx, workerID)
}

// UpdateProfile applies an optional-fields profile change. A new password
// requires the current one, which is verified against the stored hash. An
// empty update returns the current profile untouched with changed=false.
func (s *Service) UpdateProfile(ctx context.Context, workerID int64, update domain.ProfileUpdate) (*domain.WorkerProfile, bool, error) {
	if update.NewPassword != nil && update.CurrentPassword == nil {
		return nil, false, domain.ErrCurrentPasswordRequired
	}

	profile, err := s.store.GetByID(ctx, workerID)
	if err != nil {
		return nil, false, err
	}
	if update.Empty() {
		return profile, false, nil
	}

	var newHash []byte
	if update.NewPassword != nil {
		if err := auth.ComparePassword(profile.PasswordHash, *update.CurrentPassword); err != nil {
			return nil, false, err
		}
		newHash, err = auth.HashPassword(*update.NewPassword, s.bcryptCost)
		if err != nil {
			return nil, false, err
		}
	}

	updated, err := s.store.Update(ctx, workerID, update.Name, update.Email, newHash)
	if err != nil {
		return nil, false, err
	}
	return updated, true, nil
}
