package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/edutrack/backend/core/academic"
	"github.com/edutrack/backend/core/institution"
	"github.com/edutrack/backend/core/user"
	testutil "github.com/edutrack/backend/tests"
)

func Test_institutionApi_options(t *testing.T) {
	db.Reset()

	inst1 := testutil.CreateInstitution(t, instRepo, "Kivu High")
	inst2 := testutil.CreateInstitution(t, instRepo, "Goma Elementary")

	// public endpoint, no token
	req, rec := newRequest(http.MethodGet, "/api/institutions/options")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallList(t, institution.Option{ID: inst1.ID, Name: inst1.Name}, institution.Option{ID: inst2.ID, Name: inst2.Name}),
	}, rec)
}

func Test_institutionApi_crud(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin, 0, true)
	adminToken := getToken(t, admin)

	// create
	body := marchallObj(t, institution.NewInstitution{Name: "Kivu High", Address: "12 Lake Rd", Phone: "+243 990 000 000"})
	req, rec := newAuthRequest(http.MethodPost, "/api/admin/institutions", adminToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v; want %v (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var inst institution.Institution
	if err := json.Unmarshal(rec.Body.Bytes(), &inst); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}

	// missing name is a validation error
	req, rec = newAuthRequest(http.MethodPost, "/api/admin/institutions", adminToken, marchallObj(t, institution.NewInstitution{}))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"name": "this field is required"})}, rec)

	// retrieve & list
	req, rec = newAuthRequest(http.MethodGet, "/api/admin/institutions/"+strconv.Itoa(inst.ID), adminToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, inst)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/api/admin/institutions", adminToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, inst)}, rec)

	// partial update keeps unset fields
	req, rec = newAuthRequest(http.MethodPut, "/api/admin/institutions/"+strconv.Itoa(inst.ID), adminToken, marchallObj(t, map[string]string{"phone": "+243 991 111 111"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update code = %v; want %v (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var updated institution.Institution
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if updated.Name != inst.Name || updated.Phone == inst.Phone {
		t.Errorf("unexpected institution: %+v", updated)
	}

	// destroy
	req, rec = newAuthRequest(http.MethodDelete, "/api/admin/institutions/"+strconv.Itoa(inst.ID), adminToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete code = %v; want %v", rec.Code, http.StatusNoContent)
	}
	req, rec = newAuthRequest(http.MethodGet, "/api/admin/institutions/"+strconv.Itoa(inst.ID), adminToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
}

// The console drives cascading dropdowns: institution → academic level →
// grade → course. Each link of the chain is served by a by-parent route.
func Test_academicApi_cascade(t *testing.T) {
	db.Reset()

	ctx := context.Background()
	inst := testutil.CreateInstitution(t, instRepo, "Kivu High")
	primary := testutil.CreateLevel(t, academRepo, "Primary")
	secondary := testutil.CreateLevel(t, academRepo, "Secondary")
	grade1 := testutil.CreateGrade(t, academRepo, "1st Grade", primary.ID)
	grade2 := testutil.CreateGrade(t, academRepo, "2nd Grade", primary.ID)
	_ = testutil.CreateGrade(t, academRepo, "7th Grade", secondary.ID)
	math := testutil.CreateCourse(t, courseRepo, "Mathematics", grade1.ID)
	french := testutil.CreateCourse(t, courseRepo, "French", grade1.ID)
	_ = testutil.CreateCourse(t, courseRepo, "Biology", grade2.ID)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin, 0, true)
	instAdmin := testutil.CreateUser(t, usrRepo, "Principal", "princip", "princip@test.cd", "", user.RoleInstitutionAdmin, inst.ID, true)
	adminToken := getToken(t, admin)

	// attach only Primary to the institution
	body := marchallObj(t, academic.AssignLevel{InstitutionID: inst.ID, AcademicLevelID: primary.ID})
	req, rec := newAuthRequest(http.MethodPost, "/api/admin/institution-academic-levels", adminToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("assign code = %v; want %v (body: %s)", rec.Code, http.StatusNoContent, rec.Body.String())
	}

	// unknown level cannot be attached
	body = marchallObj(t, academic.AssignLevel{InstitutionID: inst.ID, AcademicLevelID: 999})
	req, rec = newAuthRequest(http.MethodPost, "/api/admin/institution-academic-levels", adminToken, body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)

	tests := []httpTest{
		{
			name: "levels by institution", path: "/api/admin/institution-academic-levels/by-institution/" + strconv.Itoa(inst.ID),
			token: adminToken, wantData: marchallList(t, primary),
		},
		{
			name: "institution admin sees own levels", path: "/api/institution-admin/academic-levels",
			token: getToken(t, instAdmin), wantData: marchallList(t, primary),
		},
		{
			name: "grades by level", path: "/api/admin/grades/by-level/" + strconv.Itoa(primary.ID),
			token: adminToken, wantData: marchallList(t, grade1, grade2),
		},
		{
			name: "grades by level (empty)", path: "/api/admin/grades/by-level/999",
			token: adminToken, wantData: marchallList(t),
		},
		{
			name: "courses by grade", path: "/api/admin/courses/by-grade/" + strconv.Itoa(grade1.ID),
			token: adminToken, wantData: marchallList(t, math, french),
		},
		{
			name: "courses by grade for institution admin", path: "/api/institution-admin/courses/by-grade/" + strconv.Itoa(grade1.ID),
			token: getToken(t, instAdmin), wantData: marchallList(t, math, french),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// detaching removes the level from the chain
	body = marchallObj(t, academic.AssignLevel{InstitutionID: inst.ID, AcademicLevelID: primary.ID})
	req, rec = newAuthRequest(http.MethodDelete, "/api/admin/institution-academic-levels", adminToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unassign code = %v; want %v (body: %s)", rec.Code, http.StatusNoContent, rec.Body.String())
	}
	levels, err := academRepo.QueryLevelsByInstitution(ctx, inst.ID)
	if err != nil {
		t.Fatalf("QueryLevelsByInstitution() failed: %v", err)
	}
	if len(levels) != 0 {
		t.Errorf("levels = %v; want none", levels)
	}
}

func Test_academicApi_gradeCrud(t *testing.T) {
	db.Reset()

	primary := testutil.CreateLevel(t, academRepo, "Primary")
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin, 0, true)
	adminToken := getToken(t, admin)

	// grade needs an existing level
	body := marchallObj(t, academic.NewGrade{Name: "1st Grade", AcademicLevelID: 999})
	req, rec := newAuthRequest(http.MethodPost, "/api/admin/grades", adminToken, body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)

	body = marchallObj(t, academic.NewGrade{Name: "1st Grade", AcademicLevelID: primary.ID})
	req, rec = newAuthRequest(http.MethodPost, "/api/admin/grades", adminToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v; want %v (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var grd academic.Grade
	if err := json.Unmarshal(rec.Body.Bytes(), &grd); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}

	// rename only; level sticks
	req, rec = newAuthRequest(http.MethodPut, "/api/admin/grades/"+strconv.Itoa(grd.ID), adminToken, marchallObj(t, map[string]string{"name": "First Grade"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update code = %v; want %v (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var updated academic.Grade
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if updated.Name != "First Grade" || updated.AcademicLevelID != primary.ID {
		t.Errorf("unexpected grade: %+v", updated)
	}

	// destroy
	req, rec = newAuthRequest(http.MethodDelete, "/api/admin/grades/"+strconv.Itoa(grd.ID), adminToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete code = %v; want %v", rec.Code, http.StatusNoContent)
	}
}
