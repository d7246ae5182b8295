package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/edutrack/backend/core/assignment"
	"github.com/edutrack/backend/core/user"
	testutil "github.com/edutrack/backend/tests"
)

func Test_assignmentApi_teacher(t *testing.T) {
	db.Reset()
	ctx := context.Background()

	inst := testutil.CreateInstitution(t, instRepo, "Kivu High")
	lvl := testutil.CreateLevel(t, academRepo, "Primary")
	grd := testutil.CreateGrade(t, academRepo, "1st Grade", lvl.ID)
	crs := testutil.CreateCourse(t, courseRepo, "Mathematics", grd.ID)

	teacher := testutil.CreateUser(t, usrRepo, "Kalume", "kalume", "kalume@test.cd", "", user.RoleTeacher, inst.ID, true)
	colleague := testutil.CreateUser(t, usrRepo, "Mwamba", "mwamba", "mwamba@test.cd", "", user.RoleTeacher, inst.ID, true)
	token := getToken(t, teacher)

	mine := testutil.CreateSection(t, sectionRepo, "Math A", crs.ID, teacher.ID, inst.ID)
	other := testutil.CreateSection(t, sectionRepo, "Math B", crs.ID, colleague.ID, inst.ID)

	fields := map[string]string{
		"title":       "Fractions homework",
		"description": "Exercises 1 through 10.",
		"type":        assignment.TypeHomework,
		"dueDate":     "2026-09-15",
		"sectionId":   strconv.Itoa(mine.ID),
	}

	// posting to a colleague's section is forbidden
	foreignFields := map[string]string{
		"title": "Hijack", "type": assignment.TypeHomework, "dueDate": "2026-09-15", "sectionId": strconv.Itoa(other.ID),
	}
	req, rec := newFormRequest(t, http.MethodPost, "/api/teacher/assignments", token, foreignFields, "")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)

	// bad dates and unknown types are rejected before anything is stored
	badDate := map[string]string{"title": "X", "type": assignment.TypeHomework, "dueDate": "someday", "sectionId": strconv.Itoa(mine.ID)}
	req, rec = newFormRequest(t, http.MethodPost, "/api/teacher/assignments", token, badDate, "")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "invalid date"})}, rec)

	badType := map[string]string{"title": "X", "type": "QUIZ", "dueDate": "2026-09-15", "sectionId": strconv.Itoa(mine.ID)}
	req, rec = newFormRequest(t, http.MethodPost, "/api/teacher/assignments", token, badType, "")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"type": "invalid assignment type"})}, rec)

	// create with an attachment
	req, rec = newFormRequest(t, http.MethodPost, "/api/teacher/assignments", token, fields, "notes.pdf")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v; want %v (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var asg assignment.Assignment
	if err := json.Unmarshal(rec.Body.Bytes(), &asg); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if asg.TeacherID != teacher.ID || asg.SectionID != mine.ID || asg.Type != assignment.TypeHomework {
		t.Errorf("unexpected assignment: %+v", asg)
	}
	if url := asg.FileURL.String; !strings.HasPrefix(url, "/media/") || !strings.HasSuffix(url, ".pdf") {
		t.Errorf("FileURL = %q; want a /media/ path keeping the extension", url)
	}

	// listings are scoped to taught sections
	req, rec = newAuthRequest(http.MethodGet, "/api/teacher/assignments/by-section/"+strconv.Itoa(mine.ID), token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, asg)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/api/teacher/assignments/by-section/"+strconv.Itoa(other.ID), token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)

	// a colleague's assignment cannot be deleted
	foreign, err := asgRepo.CreateAssignment(ctx, assignment.Assignment{
		SectionID: other.ID, TeacherID: colleague.ID, Title: "Decimals", Type: assignment.TypeHomework,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	req, rec = newAuthRequest(http.MethodDelete, "/api/teacher/assignments/"+strconv.Itoa(foreign.ID), token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)

	req, rec = newAuthRequest(http.MethodDelete, "/api/teacher/assignments/"+strconv.Itoa(asg.ID), token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete code = %v; want %v (body: %s)", rec.Code, http.StatusNoContent, rec.Body.String())
	}
}

func Test_assignmentApi_submissions(t *testing.T) {
	db.Reset()
	ctx := context.Background()

	inst := testutil.CreateInstitution(t, instRepo, "Kivu High")
	lvl := testutil.CreateLevel(t, academRepo, "Primary")
	grd := testutil.CreateGrade(t, academRepo, "1st Grade", lvl.ID)
	crs := testutil.CreateCourse(t, courseRepo, "Mathematics", grd.ID)

	teacher := testutil.CreateUser(t, usrRepo, "Kalume", "kalume", "kalume@test.cd", "", user.RoleTeacher, inst.ID, true)
	colleague := testutil.CreateUser(t, usrRepo, "Mwamba", "mwamba", "mwamba@test.cd", "", user.RoleTeacher, inst.ID, true)
	student := testutil.CreateUser(t, usrRepo, "Amani", "amani", "amani@test.cd", "", user.RoleStudent, inst.ID, true)
	teacherToken := getToken(t, teacher)
	studentToken := getToken(t, student)

	sec := testutil.CreateSection(t, sectionRepo, "Math A", crs.ID, teacher.ID, inst.ID)
	otherSec := testutil.CreateSection(t, sectionRepo, "Math B", crs.ID, teacher.ID, inst.ID)
	if err := sectionRepo.SetSectionStudents(ctx, sec.ID, []int{student.ID}); err != nil {
		t.Fatalf("SetSectionStudents() failed: %v", err)
	}

	asg, err := asgRepo.CreateAssignment(ctx, assignment.Assignment{
		SectionID: sec.ID, TeacherID: teacher.ID, Title: "Fractions", Type: assignment.TypeHomework,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	unreachable, err := asgRepo.CreateAssignment(ctx, assignment.Assignment{
		SectionID: otherSec.ID, TeacherID: teacher.ID, Title: "Decimals", Type: assignment.TypeHomework,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}

	// students only see assignments of sections they are enrolled in
	req, rec := newAuthRequest(http.MethodGet, "/api/student/assignments/by-section/"+strconv.Itoa(sec.ID), studentToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("by-section code = %v; want %v (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	req, rec = newAuthRequest(http.MethodGet, "/api/student/assignments/by-section/"+strconv.Itoa(otherSec.ID), studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)

	// submitting to an unreachable assignment looks like a missing one
	fields := map[string]string{"assignmentId": strconv.Itoa(unreachable.ID), "comment": "see attached"}
	req, rec = newFormRequest(t, http.MethodPost, "/api/student/submissions", studentToken, fields, "answers.docx")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)

	// first submission goes through
	fields["assignmentId"] = strconv.Itoa(asg.ID)
	req, rec = newFormRequest(t, http.MethodPost, "/api/student/submissions", studentToken, fields, "answers.docx")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit code = %v; want %v (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var sub assignment.Submission
	if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if sub.StudentID != student.ID || sub.AssignmentID != asg.ID {
		t.Errorf("unexpected submission: %+v", sub)
	}
	if url := sub.FileURL.String; !strings.HasPrefix(url, "/media/") || !strings.HasSuffix(url, ".docx") {
		t.Errorf("FileURL = %q; want a /media/ path keeping the extension", url)
	}

	// only once per assignment
	req, rec = newFormRequest(t, http.MethodPost, "/api/student/submissions", studentToken, fields, "")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "assignment already submitted"})}, rec)

	// the student sees their own submissions, the teacher the assignment's
	req, rec = newAuthRequest(http.MethodGet, "/api/student/submissions", studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, sub)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/api/teacher/assignments/"+strconv.Itoa(asg.ID)+"/submissions", teacherToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, sub)}, rec)

	// only the assignment's teacher can mark it
	gradeBody := marchallObj(t, assignment.GradeSubmission{Grade: 88.5})
	req, rec = newAuthRequest(http.MethodPut, "/api/teacher/submissions/"+strconv.Itoa(sub.ID)+"/grade", getToken(t, colleague), gradeBody)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)

	req, rec = newAuthRequest(http.MethodPut, "/api/teacher/submissions/999/grade", teacherToken, gradeBody)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)

	req, rec = newAuthRequest(http.MethodPut, "/api/teacher/submissions/"+strconv.Itoa(sub.ID)+"/grade", teacherToken, gradeBody)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("grade code = %v; want %v (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var graded assignment.Submission
	if err := json.Unmarshal(rec.Body.Bytes(), &graded); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if !graded.Grade.Valid || graded.Grade.Float64 != 88.5 {
		t.Errorf("Grade = %+v; want 88.5", graded.Grade)
	}
}
