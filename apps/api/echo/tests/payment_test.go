package tests

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/edutrack/backend/core/payment"
	"github.com/edutrack/backend/core/user"
	testutil "github.com/edutrack/backend/tests"
)

func Test_paymentApi(t *testing.T) {
	db.Reset()

	inst := testutil.CreateInstitution(t, instRepo, "Kivu High")
	otherInst := testutil.CreateInstitution(t, instRepo, "Goma Elementary")

	student := testutil.CreateUser(t, usrRepo, "Amani", "amani", "amani@test.cd", "", user.RoleStudent, inst.ID, true)
	instAdmin := testutil.CreateUser(t, usrRepo, "Principal", "princip", "princip@test.cd", "", user.RoleInstitutionAdmin, inst.ID, true)
	otherAdmin := testutil.CreateUser(t, usrRepo, "Outsider", "outsider", "outsider@test.cd", "", user.RoleInstitutionAdmin, otherInst.ID, true)
	studentToken := getToken(t, student)
	adminToken := getToken(t, instAdmin)

	// amount must be positive
	body := marchallObj(t, payment.NewPayment{Concept: "Tuition Q1", Amount: -5})
	req, rec := newAuthRequest(http.MethodPost, "/api/student/payments", studentToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("create code = %v; want %v (body: %s)", rec.Code, http.StatusBadRequest, rec.Body.String())
	}

	// a new payment starts pending with a server-side reference
	body = marchallObj(t, payment.NewPayment{Concept: "Tuition Q1", Amount: 150})
	req, rec = newAuthRequest(http.MethodPost, "/api/student/payments", studentToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v; want %v (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var pmt payment.Payment
	if err := json.Unmarshal(rec.Body.Bytes(), &pmt); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if pmt.Status != payment.StatusPending || pmt.Reference == "" || pmt.Currency != "USD" {
		t.Errorf("unexpected payment: %+v", pmt)
	}
	if pmt.StudentID != student.ID || pmt.InstitutionID != inst.ID {
		t.Errorf("unexpected payment scope: %+v", pmt)
	}

	body = marchallObj(t, payment.NewPayment{Concept: "Cafeteria", Amount: 20, Currency: "cdf"})
	req, rec = newAuthRequest(http.MethodPost, "/api/student/payments", studentToken, body)
	app.ServeHTTP(rec, req)
	var second payment.Payment
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if second.Currency != "CDF" {
		t.Errorf("Currency = %q; want CDF", second.Currency)
	}

	// newest first, for both the student and the institution admin
	req, rec = newAuthRequest(http.MethodGet, "/api/student/payments", studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, second, pmt)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/api/institution-admin/payments", adminToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, second, pmt)}, rec)

	// unknown statuses are rejected
	req, rec = newAuthRequest(http.MethodPut, "/api/institution-admin/payments/"+strconv.Itoa(pmt.ID)+"/status", adminToken, marchallObj(t, payment.UpdateStatus{Status: "PAID"}))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"status": "status is not a valid payment status"})}, rec)

	// other institutions cannot see the payment at all
	req, rec = newAuthRequest(http.MethodPut, "/api/institution-admin/payments/"+strconv.Itoa(pmt.ID)+"/status", getToken(t, otherAdmin), marchallObj(t, payment.UpdateStatus{Status: payment.StatusCompleted}))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)

	// completing stamps paidAt
	req, rec = newAuthRequest(http.MethodPut, "/api/institution-admin/payments/"+strconv.Itoa(pmt.ID)+"/status", adminToken, marchallObj(t, payment.UpdateStatus{Status: payment.StatusCompleted}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %v; want %v (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var completed payment.Payment
	if err := json.Unmarshal(rec.Body.Bytes(), &completed); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if completed.Status != payment.StatusCompleted || !completed.PaidAt.Valid {
		t.Errorf("unexpected payment: %+v", completed)
	}
}
