package validation

import (
	"regexp"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Letters, digits and @ . + - _ only, as in the classic username rule.
var usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}@.+_-]+$`)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("username", Username)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
}

// RegisterGinValidators installs the custom tags on gin's binding validator so
// they apply to ShouldBindJSON and ShouldBind.
func RegisterGinValidators() bool {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return false
	}
	RegisterValidators(v)
	return true
}

// Username validates the characters of a username. Length is left to min/max.
func Username(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return usernameRegex.MatchString(val)
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		// Supplementary planes are mostly emoji and pictographs
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}
