package inmemdb

import (
	"context"
	"sort"

	"github.com/edutrack/backend/core/profile"
)

type profileRepository struct {
	db *DB
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(db *DB) *profileRepository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) CreateTeacherProfile(ctx context.Context, tp profile.TeacherProfile) (profile.TeacherProfile, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.teacherProfilePK++
	tp.ID = repo.db.teacherProfilePK
	repo.db.teacherProfiles[tp.ID] = &tp
	return tp, nil
}

func (repo *profileRepository) GetTeacherProfileByUser(ctx context.Context, userID int) (profile.TeacherProfile, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, tp := range repo.db.teacherProfiles {
		if tp.UserID == userID {
			return *tp, nil
		}
	}
	return profile.TeacherProfile{}, profile.ErrNotFound
}

func (repo *profileRepository) QueryTeachersByInstitution(ctx context.Context, institutionID int) ([]profile.TeacherInfo, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var infos []profile.TeacherInfo
	for _, tp := range repo.db.teacherProfiles {
		if tp.InstitutionID != institutionID {
			continue
		}
		usr, ok := repo.db.users[tp.UserID]
		if !ok {
			continue
		}
		infos = append(infos, profile.TeacherInfo{
			ID:        tp.ID,
			UserID:    tp.UserID,
			FullName:  usr.Name + " " + usr.Lastname,
			Email:     usr.Email,
			Specialty: tp.Specialty,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

func (repo *profileRepository) CreateStudentProfile(ctx context.Context, sp profile.StudentProfile) (profile.StudentProfile, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.studentProfilePK++
	sp.ID = repo.db.studentProfilePK
	repo.db.studentProfiles[sp.ID] = &sp
	return sp, nil
}

func (repo *profileRepository) GetStudentProfileByUser(ctx context.Context, userID int) (profile.StudentProfile, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, sp := range repo.db.studentProfiles {
		if sp.UserID == userID {
			return *sp, nil
		}
	}
	return profile.StudentProfile{}, profile.ErrNotFound
}

func (repo *profileRepository) QueryStudentsByInstitution(ctx context.Context, institutionID int) ([]profile.StudentInfo, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.queryStudents(func(sp profile.StudentProfile) bool { return sp.InstitutionID == institutionID }), nil
}

func (repo *profileRepository) QueryStudentsByGradeAndInstitution(ctx context.Context, gradeID, institutionID int) ([]profile.StudentInfo, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.queryStudents(func(sp profile.StudentProfile) bool {
		return sp.GradeID == gradeID && sp.InstitutionID == institutionID
	}), nil
}

func (repo *profileRepository) queryStudents(match func(profile.StudentProfile) bool) []profile.StudentInfo {
	var infos []profile.StudentInfo
	for _, sp := range repo.db.studentProfiles {
		if !match(*sp) {
			continue
		}
		usr, ok := repo.db.users[sp.UserID]
		if !ok {
			continue
		}
		info := profile.StudentInfo{
			ID:       sp.ID,
			UserID:   sp.UserID,
			Name:     usr.Name,
			Lastname: usr.Lastname,
			Email:    usr.Email,
			GradeID:  sp.GradeID,
		}
		if grd, ok := repo.db.grades[sp.GradeID]; ok {
			info.GradeName = grd.Name
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}
