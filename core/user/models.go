package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/edutrack/backend/core"
)

// Role tags. A user holds exactly one; portals are gated on allow-lists of these.
const (
	RoleSuperAdmin       = "SUPER_ADMIN"
	RoleAdmin            = "ADMIN"
	RoleInstitutionAdmin = "INSTITUTION_ADMIN"
	RoleTeacher          = "TEACHER"
	RoleParent           = "PARENT"
	RoleStudent          = "STUDENT"
)

var (
	AllRoles = []string{RoleSuperAdmin, RoleAdmin, RoleInstitutionAdmin, RoleTeacher, RoleParent, RoleStudent}

	// RegistrationRoles are the roles self-registration may request;
	// admin roles are only granted by an existing admin.
	RegistrationRoles = []string{RoleTeacher, RoleParent, RoleStudent}

	rolePriorities = map[string]int{
		RoleSuperAdmin:       60,
		RoleAdmin:            50,
		RoleInstitutionAdmin: 40,
		RoleTeacher:          30,
		RoleParent:           20,
		RoleStudent:          10,
	}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Parent", Value: RoleParent},
		{Name: "Teacher", Value: RoleTeacher},
		{Name: "Institution Admin", Value: RoleInstitutionAdmin},
		{Name: "Admin", Value: RoleAdmin},
		{Name: "Super Admin", Value: RoleSuperAdmin},
	}
)

func RolePriority(role string) int {
	return rolePriorities[role]
}

func IsValidRole(role string) bool {
	_, ok := rolePriorities[role]
	return ok
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID            int       `json:"id"`
	Username      string    `json:"username"`
	Name          string    `json:"name"`
	Lastname      string    `json:"lastname"`
	Email         string    `json:"email"`
	Birthdate     string    `json:"birthdate,omitempty"` // YYYY-MM-DD
	Role          string    `json:"role"`
	InstitutionID int       `json:"institutionId,omitempty"` // 0 when not attached to an institution
	IsActive      bool      `json:"isActive"`
	PasswordHash  []byte    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"` // UTC
	UpdatedAt     time.Time `json:"updatedAt"` // UTC
	LastLogin     time.Time `json:"lastLogin"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

func (u *User) IsInstitutionAdmin() bool { return u.Role == RoleInstitutionAdmin }
func (u *User) IsTeacher() bool          { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool          { return u.Role == RoleStudent }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Username        string `json:"username" validate:"required,min=4,alphanum_"`
	Name            string `json:"name" validate:"required"`
	Lastname        string `json:"lastname" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Birthdate       string `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
	InstitutionID   int    `json:"institutionId"`
	Role            string `json:"role" validate:"required,role"`
}

func (nu *NewUser) Validate(svc Checker) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Name = core.CleanString(nu.Name)
	nu.Lastname = core.CleanString(nu.Lastname)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Username, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Username        string `json:"username" validate:"omitempty,min=4,alphanum_"`
	Name            string `json:"name"`
	Lastname        string `json:"lastname"`
	Email           string `json:"email" validate:"omitempty,email"`
	Birthdate       string `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	IsActive        *bool  `json:"isActive"`
	Role            string `json:"role" validate:"omitempty,role"`
	InstitutionID   *int   `json:"institutionId"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, svc Checker) error {
	if uname := core.CleanString(uu.Username, true /* lower */); uname != "" {
		uu.Username = uname
	} else {
		uu.Username = origUsr.Username
	}
	if name := core.CleanString(uu.Name); name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}
	if lastname := core.CleanString(uu.Lastname); lastname != "" {
		uu.Lastname = lastname
	} else {
		uu.Lastname = origUsr.Lastname
	}
	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if err := core.Validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(uu.Username, uu.Email, origUsr)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate() error { return core.Validate.Struct(rp) }

// QueryFilter narrows QueryAll results; fields combine with AND.
type QueryFilter struct {
	Search        string    `query:"search"`
	Role          string    `query:"role"`
	InstitutionID int       `query:"institutionId"`
	IsActive      *bool     `query:"isActive"`
	CreatedFrom   time.Time `query:"createdFrom"`
	CreatedTo     time.Time `query:"createdTo"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.InstitutionID == 0 &&
		qf.IsActive == nil && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = core.CleanString(qf.Role)
}
