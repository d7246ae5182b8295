package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/edutrack/backend/core/profile"
	"github.com/edutrack/backend/core/user"
	testutil "github.com/edutrack/backend/tests"
)

func Test_profileApi_teacher(t *testing.T) {
	db.Reset()

	inst := testutil.CreateInstitution(t, instRepo, "Kivu High")
	teacher := testutil.CreateUser(t, usrRepo, "Kalume", "kalume", "kalume@test.cd", "", user.RoleTeacher, inst.ID, true)
	token := getToken(t, teacher)

	// fresh account still needs its profile
	req, rec := newAuthRequest(http.MethodGet, "/api/teacher/profile/status", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, profile.Status{NeedsProfileCompletion: true})}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/api/teacher/profile", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)

	// specialty is mandatory
	req, rec = newAuthRequest(http.MethodPost, "/api/teacher/profile", token, marchallObj(t, profile.NewTeacherProfile{}))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"specialty": "this field is required"})}, rec)

	body := marchallObj(t, profile.NewTeacherProfile{Specialty: "Mathematics", Biography: "Ten years teaching."})
	req, rec = newAuthRequest(http.MethodPost, "/api/teacher/profile", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("complete code = %v; want %v (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var prof profile.TeacherProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &prof); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if prof.UserID != teacher.ID || prof.InstitutionID != inst.ID {
		t.Errorf("unexpected profile: %+v", prof)
	}

	// the wizard only runs once
	req, rec = newAuthRequest(http.MethodPost, "/api/teacher/profile", token, body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "profile already exists"})}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/api/teacher/profile", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, prof)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/api/teacher/profile/status", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, profile.Status{NeedsProfileCompletion: false})}, rec)
}

func Test_profileApi_student(t *testing.T) {
	db.Reset()

	inst := testutil.CreateInstitution(t, instRepo, "Kivu High")
	lvl := testutil.CreateLevel(t, academRepo, "Primary")
	grd := testutil.CreateGrade(t, academRepo, "1st Grade", lvl.ID)
	student := testutil.CreateUser(t, usrRepo, "Amani", "amani", "amani@test.cd", "", user.RoleStudent, inst.ID, true)
	token := getToken(t, student)

	req, rec := newAuthRequest(http.MethodGet, "/api/student/profile/status", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, profile.Status{NeedsProfileCompletion: true})}, rec)

	// grade is mandatory
	req, rec = newAuthRequest(http.MethodPost, "/api/student/profile", token, marchallObj(t, profile.NewStudentProfile{}))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"gradeId": "this field is required"})}, rec)

	body := marchallObj(t, profile.NewStudentProfile{GradeID: grd.ID})
	req, rec = newAuthRequest(http.MethodPost, "/api/student/profile", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("complete code = %v; want %v (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var prof profile.StudentProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &prof); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if prof.UserID != student.ID || prof.GradeID != grd.ID {
		t.Errorf("unexpected profile: %+v", prof)
	}

	req, rec = newAuthRequest(http.MethodPost, "/api/student/profile", token, body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "profile already exists"})}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/api/student/profile/status", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, profile.Status{NeedsProfileCompletion: false})}, rec)
}

func Test_profileApi_rosters(t *testing.T) {
	db.Reset()
	ctx := context.Background()

	inst := testutil.CreateInstitution(t, instRepo, "Kivu High")
	otherInst := testutil.CreateInstitution(t, instRepo, "Goma Elementary")
	lvl := testutil.CreateLevel(t, academRepo, "Primary")
	grd1 := testutil.CreateGrade(t, academRepo, "1st Grade", lvl.ID)
	grd2 := testutil.CreateGrade(t, academRepo, "2nd Grade", lvl.ID)

	teacher := testutil.CreateUser(t, usrRepo, "Kalume", "kalume", "kalume@test.cd", "", user.RoleTeacher, inst.ID, true)
	s1 := testutil.CreateUser(t, usrRepo, "Amani", "amani", "amani@test.cd", "", user.RoleStudent, inst.ID, true)
	s2 := testutil.CreateUser(t, usrRepo, "Bahati", "bahati", "bahati@test.cd", "", user.RoleStudent, inst.ID, true)
	outsider := testutil.CreateUser(t, usrRepo, "Chance", "chance", "chance@test.cd", "", user.RoleStudent, otherInst.ID, true)

	tp, err := profileRepo.CreateTeacherProfile(ctx, profile.TeacherProfile{UserID: teacher.ID, InstitutionID: inst.ID, Specialty: "Mathematics"})
	if err != nil {
		t.Fatalf("CreateTeacherProfile() failed: %v", err)
	}
	sp1, err := profileRepo.CreateStudentProfile(ctx, profile.StudentProfile{UserID: s1.ID, InstitutionID: inst.ID, GradeID: grd1.ID})
	if err != nil {
		t.Fatalf("CreateStudentProfile() failed: %v", err)
	}
	sp2, err := profileRepo.CreateStudentProfile(ctx, profile.StudentProfile{UserID: s2.ID, InstitutionID: inst.ID, GradeID: grd2.ID})
	if err != nil {
		t.Fatalf("CreateStudentProfile() failed: %v", err)
	}
	if _, err := profileRepo.CreateStudentProfile(ctx, profile.StudentProfile{UserID: outsider.ID, InstitutionID: otherInst.ID, GradeID: grd1.ID}); err != nil {
		t.Fatalf("CreateStudentProfile() failed: %v", err)
	}

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin, 0, true)
	instAdmin := testutil.CreateUser(t, usrRepo, "Principal", "princip", "princip@test.cd", "", user.RoleInstitutionAdmin, inst.ID, true)

	teacherInfo := profile.TeacherInfo{ID: tp.ID, UserID: teacher.ID, FullName: teacher.Name + " " + teacher.Lastname, Email: teacher.Email, Specialty: tp.Specialty}
	studentInfo1 := profile.StudentInfo{ID: sp1.ID, UserID: s1.ID, Name: s1.Name, Lastname: s1.Lastname, Email: s1.Email, GradeID: grd1.ID, GradeName: grd1.Name}
	studentInfo2 := profile.StudentInfo{ID: sp2.ID, UserID: s2.ID, Name: s2.Name, Lastname: s2.Lastname, Email: s2.Email, GradeID: grd2.ID, GradeName: grd2.Name}

	tests := []httpTest{
		{
			name: "admin teachers by institution", path: "/api/admin/teachers/by-institution/" + strconv.Itoa(inst.ID),
			token: getToken(t, admin), wantData: marchallList(t, teacherInfo),
		},
		{
			name: "admin students by institution", path: "/api/admin/students/by-institution/" + strconv.Itoa(inst.ID),
			token: getToken(t, admin), wantData: marchallList(t, studentInfo1, studentInfo2),
		},
		{
			name: "institution admin teachers", path: "/api/institution-admin/teachers",
			token: getToken(t, instAdmin), wantData: marchallList(t, teacherInfo),
		},
		{
			name: "institution admin students", path: "/api/institution-admin/students",
			token: getToken(t, instAdmin), wantData: marchallList(t, studentInfo1, studentInfo2),
		},
		{
			name: "students by grade stay inside the institution", path: "/api/institution-admin/students/by-grade/" + strconv.Itoa(grd1.ID),
			token: getToken(t, instAdmin), wantData: marchallList(t, studentInfo1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			tt.wantCode = http.StatusOK
			checkCodeAndData(t, tt, rec)
		})
	}
}
