package institution

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("institution not found")

type (
	Repository interface {
		CreateInstitution(ctx context.Context, inst Institution) (Institution, error)
		QueryAllInstitutions(ctx context.Context) ([]Institution, error)
		GetInstitutionByID(ctx context.Context, id int) (Institution, error)
		UpdateInstitution(ctx context.Context, inst Institution) (Institution, error)
		DeleteInstitutionByID(ctx context.Context, id int) error
		CountInstitutions(ctx context.Context) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ni NewInstitution) (Institution, error) {
	return svc.repo.CreateInstitution(ctx, Institution{
		Name:    ni.Name,
		Address: ni.Address,
		Phone:   ni.Phone,
	})
}

func (svc *Service) QueryAll(ctx context.Context) ([]Institution, error) {
	return svc.repo.QueryAllInstitutions(ctx)
}

// Options returns the registration/cascading dropdown shape.
func (svc *Service) Options(ctx context.Context) ([]Option, error) {
	insts, err := svc.repo.QueryAllInstitutions(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(insts))
	for _, inst := range insts {
		opts = append(opts, Option{ID: inst.ID, Name: inst.Name})
	}
	return opts, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Institution, error) {
	return svc.repo.GetInstitutionByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int, ui UpdateInstitution) (Institution, error) {
	return svc.repo.UpdateInstitution(ctx, Institution{
		ID:      id,
		Name:    ui.Name,
		Address: ui.Address,
		Phone:   ui.Phone,
	})
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteInstitutionByID(ctx, id)
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountInstitutions(ctx)
}
