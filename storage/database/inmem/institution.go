package inmemdb

import (
	"context"
	"sort"

	"github.com/edutrack/backend/core/institution"
)

type institutionRepository struct {
	db *DB
}

var _ institution.Repository = (*institutionRepository)(nil) // interface compliance check

func NewInstitutionRepository(db *DB) *institutionRepository {
	return &institutionRepository{db: db}
}

func (repo *institutionRepository) CreateInstitution(ctx context.Context, inst institution.Institution) (institution.Institution, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.institutionPK++
	inst.ID = repo.db.institutionPK
	repo.db.institutions[inst.ID] = &inst
	return inst, nil
}

func (repo *institutionRepository) QueryAllInstitutions(ctx context.Context) ([]institution.Institution, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	insts := make([]institution.Institution, 0, len(repo.db.institutions))
	for _, inst := range repo.db.institutions {
		insts = append(insts, *inst)
	}
	sort.Slice(insts, func(i, j int) bool { return insts[i].ID < insts[j].ID })
	return insts, nil
}

func (repo *institutionRepository) GetInstitutionByID(ctx context.Context, id int) (institution.Institution, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if inst, ok := repo.db.institutions[id]; ok {
		return *inst, nil
	}
	return institution.Institution{}, institution.ErrNotFound
}

func (repo *institutionRepository) UpdateInstitution(ctx context.Context, inst institution.Institution) (institution.Institution, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.institutions[inst.ID]; !ok {
		return institution.Institution{}, institution.ErrNotFound
	}
	repo.db.institutions[inst.ID] = &inst
	return inst, nil
}

func (repo *institutionRepository) DeleteInstitutionByID(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	delete(repo.db.institutions, id)
	return nil
}

func (repo *institutionRepository) CountInstitutions(ctx context.Context) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return len(repo.db.institutions), nil
}
