package inmemdb

import (
	"context"
	"sort"

	"github.com/edutrack/backend/core/academic"
)

type academicRepository struct {
	db *DB
}

var _ academic.Repository = (*academicRepository)(nil) // interface compliance check

func NewAcademicRepository(db *DB) *academicRepository {
	return &academicRepository{db: db}
}

func (repo *academicRepository) CreateLevel(ctx context.Context, lvl academic.Level) (academic.Level, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.levelPK++
	lvl.ID = repo.db.levelPK
	repo.db.levels[lvl.ID] = &lvl
	return lvl, nil
}

func (repo *academicRepository) QueryAllLevels(ctx context.Context) ([]academic.Level, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	levels := make([]academic.Level, 0, len(repo.db.levels))
	for _, lvl := range repo.db.levels {
		levels = append(levels, *lvl)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].ID < levels[j].ID })
	return levels, nil
}

func (repo *academicRepository) GetLevelByID(ctx context.Context, id int) (academic.Level, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if lvl, ok := repo.db.levels[id]; ok {
		return *lvl, nil
	}
	return academic.Level{}, academic.ErrLevelNotFound
}

func (repo *academicRepository) UpdateLevel(ctx context.Context, lvl academic.Level) (academic.Level, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.levels[lvl.ID]; !ok {
		return academic.Level{}, academic.ErrLevelNotFound
	}
	repo.db.levels[lvl.ID] = &lvl
	return lvl, nil
}

func (repo *academicRepository) DeleteLevelByID(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	delete(repo.db.levels, id)
	for assignment := range repo.db.institutionLevels {
		if assignment.academicLevelID == id {
			delete(repo.db.institutionLevels, assignment)
		}
	}
	return nil
}

func (repo *academicRepository) CreateGrade(ctx context.Context, grd academic.Grade) (academic.Grade, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.gradePK++
	grd.ID = repo.db.gradePK
	repo.db.grades[grd.ID] = &grd
	return grd, nil
}

func (repo *academicRepository) QueryAllGrades(ctx context.Context) ([]academic.Grade, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.queryGrades(func(academic.Grade) bool { return true }), nil
}

func (repo *academicRepository) GetGradeByID(ctx context.Context, id int) (academic.Grade, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if grd, ok := repo.db.grades[id]; ok {
		return *grd, nil
	}
	return academic.Grade{}, academic.ErrGradeNotFound
}

func (repo *academicRepository) QueryGradesByLevel(ctx context.Context, levelID int) ([]academic.Grade, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.queryGrades(func(grd academic.Grade) bool { return grd.AcademicLevelID == levelID }), nil
}

func (repo *academicRepository) UpdateGrade(ctx context.Context, grd academic.Grade) (academic.Grade, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.grades[grd.ID]; !ok {
		return academic.Grade{}, academic.ErrGradeNotFound
	}
	repo.db.grades[grd.ID] = &grd
	return grd, nil
}

func (repo *academicRepository) DeleteGradeByID(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	delete(repo.db.grades, id)
	return nil
}

func (repo *academicRepository) AssignLevelToInstitution(ctx context.Context, institutionID, levelID int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	repo.db.institutionLevels[levelAssignment{institutionID, levelID}] = struct{}{}
	return nil
}

func (repo *academicRepository) UnassignLevelFromInstitution(ctx context.Context, institutionID, levelID int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	delete(repo.db.institutionLevels, levelAssignment{institutionID, levelID})
	return nil
}

func (repo *academicRepository) QueryLevelsByInstitution(ctx context.Context, institutionID int) ([]academic.Level, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var levels []academic.Level
	for assignment := range repo.db.institutionLevels {
		if assignment.institutionID != institutionID {
			continue
		}
		if lvl, ok := repo.db.levels[assignment.academicLevelID]; ok {
			levels = append(levels, *lvl)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].ID < levels[j].ID })
	return levels, nil
}

func (repo *academicRepository) queryGrades(match func(academic.Grade) bool) []academic.Grade {
	grades := make([]academic.Grade, 0, len(repo.db.grades))
	for _, grd := range repo.db.grades {
		if match(*grd) {
			grades = append(grades, *grd)
		}
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i].ID < grades[j].ID })
	return grades
}
