package institution

import "github.com/edutrack/backend/core"

type Institution struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Option is the trimmed-down shape used by registration and cascading dropdowns.
type Option struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type NewInstitution struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (ni *NewInstitution) Validate() error {
	ni.Name = core.CleanString(ni.Name)
	ni.Address = core.CleanString(ni.Address)
	ni.Phone = core.CleanString(ni.Phone)
	return core.Validate.Struct(ni)
}

type UpdateInstitution struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (ui *UpdateInstitution) Validate(orig Institution) error {
	if name := core.CleanString(ui.Name); name != "" {
		ui.Name = name
	} else {
		ui.Name = orig.Name
	}
	if addr := core.CleanString(ui.Address); addr != "" {
		ui.Address = addr
	} else {
		ui.Address = orig.Address
	}
	if phone := core.CleanString(ui.Phone); phone != "" {
		ui.Phone = phone
	} else {
		ui.Phone = orig.Phone
	}
	return core.Validate.Struct(ui)
}
