package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/edutrack/backend/core/user"
	testutil "github.com/edutrack/backend/tests"
)

func Test_userApi_query(t *testing.T) {
	db.Reset()

	path := func(search, role string, isActive *bool, createdFrom, createdTo time.Time) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if role != "" {
			v.Add("role", role)
		}
		if isActive != nil {
			v.Add("isActive", strconv.FormatBool(*isActive))
		}
		if !createdFrom.IsZero() {
			v.Add("createdFrom", createdFrom.Format(time.RFC3339))
		}
		if !createdTo.IsZero() {
			v.Add("createdTo", createdTo.Format(time.RFC3339))
		}
		return "/api/admin/users?" + v.Encode()
	}
	bPtr := func(b bool) *bool { return &b }

	now := time.Now().UTC().Truncate(time.Second)
	t1 := now.Add(1 * time.Hour)
	t2 := now.Add(2 * time.Hour)
	t3 := now.Add(3 * time.Hour)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin, 0, true, now)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", user.RoleTeacher, 0, true, t1)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", user.RoleStudent, 0, true, t2)
	naughty := testutil.CreateUser(t, usrRepo, "Dog", "ndog", "ndog@test.cd", "", user.RoleStudent, 0, false, t3)

	adminToken := getToken(t, admin)
	empty := marchallList(t)

	tests := []httpTest{
		{name: "get all", path: "/api/admin/users", wantData: marchallList(t, admin, teacher, student, naughty)},
		{name: "search (unknown)", path: path("lol", "", nil, time.Time{}, time.Time{}), wantData: empty},
		{name: "search=her", path: path("her", "", nil, time.Time{}, time.Time{}), wantData: marchallList(t, student)},
		{name: "role (unknown)", path: path("", "lol", nil, time.Time{}, time.Time{}), wantData: empty},
		{name: "role=STUDENT", path: path("", user.RoleStudent, nil, time.Time{}, time.Time{}), wantData: marchallList(t, student, naughty)},
		{name: "isActive=false", path: path("", "", bPtr(false), time.Time{}, time.Time{}), wantData: marchallList(t, naughty)},
		{name: "createdFrom", path: path("", "", nil, t2, time.Time{}), wantData: marchallList(t, student, naughty)},
		{name: "createdTo", path: path("", "", nil, time.Time{}, t1), wantData: marchallList(t, admin, teacher)},
		{name: "combo", path: path("", user.RoleStudent, bPtr(true), t1, t2), wantData: marchallList(t, student)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.token = adminToken
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_create(t *testing.T) {
	db.Reset()

	inst := testutil.CreateInstitution(t, instRepo, "Kivu High")
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin, 0, true)
	adminToken := getToken(t, admin)

	newUser := func(uname, role string) []byte {
		return marchallObj(t, user.NewUser{
			Username:        uname,
			Name:            "New",
			Lastname:        "Kid",
			Email:           uname + "@test.cd",
			Password:        "Str0ngPwd!",
			PasswordConfirm: "Str0ngPwd!",
			InstitutionID:   inst.ID,
			Role:            role,
		})
	}

	tests := []httpTest{
		{
			name: "invalid role", body: newUser("kid01", "GOD"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"role": "invalid role"}),
		},
		{
			name: "cannot grant a role above own", body: newUser("sneaky", user.RoleSuperAdmin), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"role": "not enough rights to grant this role"}),
		},
		{name: "institution admin ok", body: newUser("princip", user.RoleInstitutionAdmin), wantCode: http.StatusCreated},
		{name: "student ok", body: newUser("kid01", user.RoleStudent), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/admin/users", adminToken, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v (body: %s)", rec.Code, tt.wantCode, rec.Body.String())
				}
				var usr user.User
				if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
					t.Fatalf("json.Unmarshal() failed: %v", err)
				}
				if usr.ID == 0 || usr.InstitutionID != inst.ID {
					t.Errorf("unexpected user: %+v", usr)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_retrieveUpdateDestroy(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin, 0, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", user.RoleStudent, 0, true)
	adminToken := getToken(t, admin)

	// retrieve
	req, rec := newAuthRequest(http.MethodGet, "/api/admin/users/"+strconv.Itoa(student.ID), adminToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, student)}, rec)

	// retrieve unknown
	req, rec = newAuthRequest(http.MethodGet, "/api/admin/users/999", adminToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)

	// update
	body := marchallObj(t, map[string]string{"name": "Zero"})
	req, rec = newAuthRequest(http.MethodPut, "/api/admin/users/"+strconv.Itoa(student.ID), adminToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update code = %v; want %v (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var updated user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if updated.Name != "Zero" || updated.Username != student.Username {
		t.Errorf("unexpected user: %+v", updated)
	}

	// self-deletion is refused
	req, rec = newAuthRequest(http.MethodDelete, "/api/admin/users/"+strconv.Itoa(admin.ID), adminToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)

	// deleting another user works
	req, rec = newAuthRequest(http.MethodDelete, "/api/admin/users/"+strconv.Itoa(student.ID), adminToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete code = %v; want %v", rec.Code, http.StatusNoContent)
	}
	req, rec = newAuthRequest(http.MethodGet, "/api/admin/users/"+strconv.Itoa(student.ID), adminToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
}

func Test_userApi_roles(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin, 0, true)

	req, rec := newAuthRequest(http.MethodGet, "/api/admin/users/roles", getToken(t, admin))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, user.Roles)}, rec)
}

func Test_userApi_administrators(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin, 0, true)
	_ = testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", user.RoleStudent, 0, true)
	adminToken := getToken(t, admin)

	// only admins listed
	req, rec := newAuthRequest(http.MethodGet, "/api/admin/administrators", adminToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, admin)}, rec)

	// created administrators get the admin role regardless of payload
	body := marchallObj(t, user.NewUser{
		Username:        "admin2",
		Name:            "Second",
		Lastname:        "Admin",
		Email:           "admin2@test.cd",
		Password:        "Str0ngPwd!",
		PasswordConfirm: "Str0ngPwd!",
		Role:            user.RoleStudent, // ignored
	})
	req, rec = newAuthRequest(http.MethodPost, "/api/admin/administrators", adminToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v; want %v (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var created user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if created.Role != user.RoleAdmin {
		t.Errorf("Role = %s; want %s", created.Role, user.RoleAdmin)
	}
}
