package inmemdb

import (
	"context"
	"sort"

	"github.com/edutrack/backend/core/profile"
	"github.com/edutrack/backend/core/section"
)

type sectionRepository struct {
	db *DB
}

var _ section.Repository = (*sectionRepository)(nil) // interface compliance check

func NewSectionRepository(db *DB) *sectionRepository {
	return &sectionRepository{db: db}
}

// buildInfo expands a section with the display names of its related records.
// Callers must hold at least a read lock.
func (repo *sectionRepository) buildInfo(sec section.Section) section.Info {
	info := section.Info{
		Section:      sec,
		StudentCount: len(repo.db.sectionStudents[sec.ID]),
	}
	if crs, ok := repo.db.courses[sec.CourseID]; ok {
		info.CourseName = crs.Name
		if grd, ok := repo.db.grades[crs.GradeID]; ok {
			info.GradeID = grd.ID
			info.GradeName = grd.Name
			if lvl, ok := repo.db.levels[grd.AcademicLevelID]; ok {
				info.AcademicLevelID = lvl.ID
				info.LevelName = lvl.Name
			}
		}
	}
	if teacher, ok := repo.db.users[sec.TeacherID]; ok {
		info.TeacherFullName = teacher.Name + " " + teacher.Lastname
	}
	if inst, ok := repo.db.institutions[sec.InstitutionID]; ok {
		info.InstitutionName = inst.Name
	}
	return info
}

func (repo *sectionRepository) CreateSection(ctx context.Context, sec section.Section) (section.Section, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.sectionPK++
	sec.ID = repo.db.sectionPK
	repo.db.sections[sec.ID] = &sec
	return sec, nil
}

func (repo *sectionRepository) GetSectionByID(ctx context.Context, id int) (section.Section, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if sec, ok := repo.db.sections[id]; ok {
		return *sec, nil
	}
	return section.Section{}, section.ErrNotFound
}

func (repo *sectionRepository) GetSectionInfoByID(ctx context.Context, id int) (section.Info, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	sec, ok := repo.db.sections[id]
	if !ok {
		return section.Info{}, section.ErrNotFound
	}
	return repo.buildInfo(*sec), nil
}

func (repo *sectionRepository) QuerySectionsByInstitution(ctx context.Context, institutionID int) ([]section.Info, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.queryInfos(func(sec section.Section) bool { return sec.InstitutionID == institutionID }), nil
}

func (repo *sectionRepository) QuerySectionsByTeacher(ctx context.Context, teacherID int) ([]section.Info, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.queryInfos(func(sec section.Section) bool { return sec.TeacherID == teacherID }), nil
}

func (repo *sectionRepository) QuerySectionsByStudent(ctx context.Context, studentID int) ([]section.Info, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return repo.queryInfos(func(sec section.Section) bool {
		for _, id := range repo.db.sectionStudents[sec.ID] {
			if id == studentID {
				return true
			}
		}
		return false
	}), nil
}

func (repo *sectionRepository) UpdateSection(ctx context.Context, sec section.Section) (section.Section, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.sections[sec.ID]; !ok {
		return section.Section{}, section.ErrNotFound
	}
	repo.db.sections[sec.ID] = &sec
	return sec, nil
}

func (repo *sectionRepository) DeleteSectionByID(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	delete(repo.db.sections, id)
	delete(repo.db.sectionStudents, id)
	return nil
}

func (repo *sectionRepository) CountSectionsByInstitution(ctx context.Context, institutionID int) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var count int
	for _, sec := range repo.db.sections {
		if sec.InstitutionID == institutionID {
			count++
		}
	}
	return count, nil
}

func (repo *sectionRepository) SetSectionStudents(ctx context.Context, sectionID int, studentIDs []int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	roster := make([]int, 0, len(studentIDs))
	seen := make(map[int]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		roster = append(roster, id)
	}
	repo.db.sectionStudents[sectionID] = roster
	return nil
}

func (repo *sectionRepository) QuerySectionStudents(ctx context.Context, sectionID int) ([]section.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	students := make([]section.Student, 0, len(repo.db.sectionStudents[sectionID]))
	for _, id := range repo.db.sectionStudents[sectionID] {
		usr, ok := repo.db.users[id]
		if !ok {
			continue
		}
		student := section.Student{
			ID:       usr.ID,
			Name:     usr.Name,
			Lastname: usr.Lastname,
			Email:    usr.Email,
		}
		if prof, ok := repo.studentProfile(id); ok {
			if grd, ok := repo.db.grades[prof.GradeID]; ok {
				student.Grade = grd.Name
				if lvl, ok := repo.db.levels[grd.AcademicLevelID]; ok {
					student.AcademicLevel = lvl.Name
				}
			}
		}
		students = append(students, student)
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].Lastname != students[j].Lastname {
			return students[i].Lastname < students[j].Lastname
		}
		return students[i].Name < students[j].Name
	})
	return students, nil
}

func (repo *sectionRepository) QueryStudentAverages(ctx context.Context, sectionID int) ([]section.StudentAverage, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	averages := make([]section.StudentAverage, 0, len(repo.db.sectionStudents[sectionID]))
	for _, id := range repo.db.sectionStudents[sectionID] {
		usr, ok := repo.db.users[id]
		if !ok {
			continue
		}

		var sum float64
		var graded int
		for _, sub := range repo.db.submissions {
			if sub.StudentID != id || !sub.Grade.Valid {
				continue
			}
			if asg, ok := repo.db.assignments[sub.AssignmentID]; ok && asg.SectionID == sectionID {
				sum += sub.Grade.Float64
				graded++
			}
		}

		avg := section.StudentAverage{
			StudentID:   usr.ID,
			StudentName: usr.Name + " " + usr.Lastname,
		}
		if graded > 0 {
			avg.AverageGrade = sum / float64(graded)
		}
		averages = append(averages, avg)
	}
	sort.Slice(averages, func(i, j int) bool { return averages[i].StudentID < averages[j].StudentID })
	return averages, nil
}

func (repo *sectionRepository) queryInfos(match func(section.Section) bool) []section.Info {
	var infos []section.Info
	for _, sec := range repo.db.sections {
		if match(*sec) {
			infos = append(infos, repo.buildInfo(*sec))
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

func (repo *sectionRepository) studentProfile(userID int) (*profile.StudentProfile, bool) {
	for _, sp := range repo.db.studentProfiles {
		if sp.UserID == userID {
			return sp, true
		}
	}
	return nil, false
}
