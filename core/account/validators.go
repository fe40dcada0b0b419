package account

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/lowkey/studybuddy/core"
)

var (
	// password policy
	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to the username"
)

// PasswordPolicy decides which credentials are accepted beyond the required fields.
type PasswordPolicy string

const (
	// PasswordBasic only requires a non-blank username and a password.
	PasswordBasic PasswordPolicy = "basic"
	// PasswordStrict also restricts usernames to letters, digits and underscores and
	// rejects passwords containing whitespace or resembling the username.
	PasswordStrict PasswordPolicy = "strict"
)

// strictCredentials is the input validated by PasswordStrict.
type strictCredentials struct {
	Username string `json:"username" validate:"omitempty,alphanum_"`
	Password string `json:"password"`
}

func init() {
	core.Validate.RegisterStructValidation(strictStructValidation, strictCredentials{})
	core.RegisterCustomTranslation(pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(pwdAttrSimTag, pwdAttrSimText)
}

// Check applies the policy to a username and password that already passed the required checks.
func (p PasswordPolicy) Check(username, pwd string) error {
	if p != PasswordStrict {
		return nil
	}
	return core.ValidateStruct(strictCredentials{Username: username, Password: pwd})
}

func strictStructValidation(sl validator.StructLevel) {
	in := sl.Current().Interface().(strictCredentials)
	validatePassword(in.Password, in.Username, sl)
}

// validatePassword applies the password policy to provided password:
// - no whitespace
// - no username similarity
func validatePassword(pwd, uname string, sl validator.StructLevel) {
	if pwd == "" {
		return // reported by `required`
	}
	reportErr := func(tag string) {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}

	for _, char := range pwd {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
	}

	if uname != "" {
		ratio := difflib.NewMatcher(strings.Split(pwd, ""), strings.Split(uname, "")).QuickRatio()
		if ratio >= pwdMaxSim {
			reportErr(pwdAttrSimTag)
		}
	}
}
