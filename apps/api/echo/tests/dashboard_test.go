package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	. "github.com/edutrack/backend/apps/api/echo"
	"github.com/edutrack/backend/core/payment"
	"github.com/edutrack/backend/core/user"
	testutil "github.com/edutrack/backend/tests"
)

func Test_dashboardApi(t *testing.T) {
	db.Reset()
	ctx := context.Background()

	inst := testutil.CreateInstitution(t, instRepo, "Kivu High")
	otherInst := testutil.CreateInstitution(t, instRepo, "Goma Elementary")
	lvl := testutil.CreateLevel(t, academRepo, "Primary")
	grd := testutil.CreateGrade(t, academRepo, "1st Grade", lvl.ID)
	crs := testutil.CreateCourse(t, courseRepo, "Mathematics", grd.ID)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin, 0, true)
	instAdmin := testutil.CreateUser(t, usrRepo, "Principal", "princip", "princip@test.cd", "", user.RoleInstitutionAdmin, inst.ID, true)
	teacher := testutil.CreateUser(t, usrRepo, "Kalume", "kalume", "kalume@test.cd", "", user.RoleTeacher, inst.ID, true)
	s1 := testutil.CreateUser(t, usrRepo, "Amani", "amani", "amani@test.cd", "", user.RoleStudent, inst.ID, true)
	_ = testutil.CreateUser(t, usrRepo, "Bahati", "bahati", "bahati@test.cd", "", user.RoleStudent, otherInst.ID, true)

	_ = testutil.CreateSection(t, sectionRepo, "Math A", crs.ID, teacher.ID, inst.ID)
	_ = testutil.CreateSection(t, sectionRepo, "Math B", crs.ID, teacher.ID, otherInst.ID)
	if _, err := paymentRepo.CreatePayment(ctx, payment.Payment{
		StudentID: s1.ID, InstitutionID: inst.ID, Concept: "Tuition", Amount: 100,
		Currency: "USD", Status: payment.StatusPending, CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("CreatePayment() failed: %v", err)
	}

	req, rec := newAuthRequest(http.MethodGet, "/api/admin/dashboard", getToken(t, admin))
	app.ServeHTTP(rec, req)
	want := PlatformCounts{Institutions: 2, Teachers: 1, Students: 2, Admins: 1}
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, want)}, rec)

	// institution admins only see their own numbers
	req, rec = newAuthRequest(http.MethodGet, "/api/institution-admin/dashboard", getToken(t, instAdmin))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, InstitutionCounts{Sections: 1, Payments: 1})}, rec)
}
