package validation

import (
	"github.com/go-playground/validator/v10"
)

var trackableRoles = []string{"user", "team_lead"}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Roles que acepta el aprovisionamiento. "admin" se siembra aparte,
	// nunca entra por registros masivos.
	v.RegisterValidation("trackable_role", validateTrackableRole)

	return &Validator{validate: v}
}

func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

func validateTrackableRole(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	for _, r := range trackableRoles {
		if role == r {
			return true
		}
	}
	return false
}
