package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edutrack/backend/core/assignment"
	"github.com/edutrack/backend/core/section"
	filesvc "github.com/edutrack/backend/services/files"
)

type assignmentApi struct {
	svc        *assignment.Service
	sectionSvc *section.Service
	files      *filesvc.Storage
}

func registerAssignmentAPI(teacher, student *echo.Group, deps *Deps) {
	api := assignmentApi{svc: deps.AssignmentSvc, sectionSvc: deps.SectionSvc, files: deps.FileStorage}

	tg := teacher.Group("/assignments")
	tg.POST("", api.create)
	tg.GET("/by-section/:id", api.queryBySectionForTeacher)
	tg.DELETE("/:id", api.destroy)
	tg.GET("/:id/submissions", api.querySubmissions)
	teacher.PUT("/submissions/:id/grade", api.gradeSubmission)

	student.GET("/assignments/by-section/:id", api.queryBySectionForStudent)
	student.POST("/submissions", api.submit)
	student.GET("/submissions", api.queryOwnSubmissions)
}

// create accepts a multipart form: title, description, type, dueDate,
// sectionId and an optional file attachment.
func (api *assignmentApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	dueDate, err := parseDate(ctx.FormValue("dueDate"))
	if err != nil {
		return err
	}
	sectionID, _ := strconv.Atoi(ctx.FormValue("sectionId"))
	data := assignment.NewAssignment{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
		Type:        ctx.FormValue("type"),
		DueDate:     dueDate,
		SectionID:   sectionID,
	}
	if err := data.Validate(); err != nil {
		return err
	}

	// only the section's teacher can post to it
	sec, err := api.getSection(ctx, data.SectionID)
	if err != nil {
		return err
	}
	if sec.TeacherID != claims.UserID() {
		return errHttpForbidden
	}

	if fileURL, err := api.saveUpload(ctx); err != nil {
		return err
	} else {
		data.FileURL = fileURL
	}

	asg, err := api.svc.Create(ctx.Request().Context(), claims.UserID(), data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *assignmentApi) queryBySectionForTeacher(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	sec, err := api.getSection(ctx, id)
	if err != nil {
		return err
	}
	if sec.TeacherID != claims.UserID() {
		return errHttpNotFound
	}
	return api.respondAssignments(ctx, sec.ID)
}

func (api *assignmentApi) queryBySectionForStudent(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	enrolled, err := api.isEnrolled(ctx, claims.UserID(), id)
	if err != nil {
		return err
	}
	if !enrolled {
		return errHttpNotFound
	}
	return api.respondAssignments(ctx, id)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	asg, err := api.getOwnAssignment(ctx, ctx.Param("id"))
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), asg.ID); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *assignmentApi) querySubmissions(ctx echo.Context) error {
	asg, err := api.getOwnAssignment(ctx, ctx.Param("id"))
	if err != nil {
		return err
	}
	subs, err := api.svc.SubmissionsByAssignment(ctx.Request().Context(), asg.ID)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []assignment.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *assignmentApi) gradeSubmission(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	var data assignment.GradeSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeSubmission")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	// the submission must belong to one of the teacher's assignments
	sub, err := api.svc.GetSubmissionByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == assignment.ErrSubmissionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding submission by ID")
	}
	if _, err := api.getOwnAssignmentByID(ctx, sub.AssignmentID, claims.UserID()); err != nil {
		return err
	}

	sub, err = api.svc.Grade(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "grading submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

// submit accepts a multipart form: assignmentId, comment and an optional
// file attachment. A student may submit once per assignment.
func (api *assignmentApi) submit(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	assignmentID, _ := strconv.Atoi(ctx.FormValue("assignmentId"))
	data := assignment.NewSubmission{
		AssignmentID: assignmentID,
		Comment:      ctx.FormValue("comment"),
	}
	if err := data.Validate(); err != nil {
		return err
	}

	// the assignment must belong to a section the student is enrolled in
	asg, err := api.getAssignment(ctx, data.AssignmentID)
	if err != nil {
		return err
	}
	enrolled, err := api.isEnrolled(ctx, claims.UserID(), asg.SectionID)
	if err != nil {
		return err
	}
	if !enrolled {
		return errHttpNotFound
	}

	if fileURL, err := api.saveUpload(ctx); err != nil {
		return err
	} else {
		data.FileURL = fileURL
	}

	sub, err := api.svc.Submit(ctx.Request().Context(), claims.UserID(), data)
	if err != nil {
		if errors.Cause(err) == assignment.ErrAlreadySubmitted {
			return echo.NewHTTPError(http.StatusConflict, assignment.ErrAlreadySubmitted.Error())
		}
		return errors.Wrap(err, "submitting assignment")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *assignmentApi) queryOwnSubmissions(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	subs, err := api.svc.SubmissionsByStudent(ctx.Request().Context(), claims.UserID())
	if err != nil {
		return errors.Wrap(err, "querying own submissions")
	}
	if subs == nil {
		subs = []assignment.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *assignmentApi) respondAssignments(ctx echo.Context, sectionID int) error {
	asgs, err := api.svc.BySection(ctx.Request().Context(), sectionID)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if asgs == nil {
		asgs = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, asgs)
}

// saveUpload stores the form's "file" attachment, if any, and returns its URL.
func (api *assignmentApi) saveUpload(ctx echo.Context) (string, error) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return "", nil // no attachment
	}
	if api.files == nil {
		return "", errors.New("file storage not configured")
	}
	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "opening upload")
	}
	defer src.Close()

	url, err := api.files.Save(src, fh.Filename)
	if err != nil {
		return "", errors.Wrap(err, "saving upload")
	}
	return url, nil
}

func (api *assignmentApi) isEnrolled(ctx echo.Context, studentID, sectionID int) (bool, error) {
	infos, err := api.sectionSvc.ByStudent(ctx.Request().Context(), studentID)
	if err != nil {
		return false, errors.Wrap(err, "querying student sections")
	}
	for _, info := range infos {
		if info.ID == sectionID {
			return true, nil
		}
	}
	return false, nil
}

func (api *assignmentApi) getSection(ctx echo.Context, id int) (section.Section, error) {
	sec, err := api.sectionSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == section.ErrNotFound {
			return section.Section{}, errHttpNotFound
		}
		return section.Section{}, errors.Wrap(err, "finding section by ID")
	}
	return sec, nil
}

func (api *assignmentApi) getAssignment(ctx echo.Context, id int) (assignment.Assignment, error) {
	asg, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return assignment.Assignment{}, errHttpNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "finding assignment by ID")
	}
	return asg, nil
}

// getOwnAssignment resolves the given ID param and ensures the caller authored it.
func (api *assignmentApi) getOwnAssignment(ctx echo.Context, param string) (assignment.Assignment, error) {
	id, err := strconv.Atoi(param)
	if err != nil {
		return assignment.Assignment{}, errHttpNotFound
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return assignment.Assignment{}, err
	}
	return api.getOwnAssignmentByID(ctx, id, claims.UserID())
}

func (api *assignmentApi) getOwnAssignmentByID(ctx echo.Context, id, teacherID int) (assignment.Assignment, error) {
	asg, err := api.getAssignment(ctx, id)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if asg.TeacherID != teacherID {
		return assignment.Assignment{}, errHttpNotFound
	}
	return asg, nil
}

// parseDate accepts both RFC 3339 timestamps and bare dates.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid date")
}
