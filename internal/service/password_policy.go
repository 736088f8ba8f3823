package service

import (
	"unicode"

	"github.com/tiffin-desk/internal/config"
)

// PasswordPolicyError 密码策略校验失败，携带 i18n 键
type PasswordPolicyError struct {
	key  string
	args []interface{}
}

func (e PasswordPolicyError) Error() string {
	return e.key
}

func (e PasswordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

// Key i18n 键
func (e PasswordPolicyError) Key() string {
	return e.key
}

// Args i18n 参数
func (e PasswordPolicyError) Args() []interface{} {
	return e.args
}

type passwordClass struct {
	required bool
	present  bool
	key      string
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return PasswordPolicyError{key: "error.password_min_length", args: []interface{}{policy.MinLength}}
	}

	classes := []*passwordClass{
		{required: policy.RequireUpper, key: "error.password_require_upper"},
		{required: policy.RequireLower, key: "error.password_require_lower"},
		{required: policy.RequireNumber, key: "error.password_require_number"},
		{required: policy.RequireSpecial, key: "error.password_require_special"},
	}
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			classes[0].present = true
		case unicode.IsLower(r):
			classes[1].present = true
		case unicode.IsDigit(r):
			classes[2].present = true
		default:
			classes[3].present = true
		}
	}
	for _, class := range classes {
		if class.required && !class.present {
			return PasswordPolicyError{key: class.key}
		}
	}
	return nil
}
