package serrors

import "github.com/go-playground/validator/v10"

// FieldErrors flattens a validator result into a field-to-tag map for API
// error envelopes. A nil error yields an empty map.
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	if err == nil {
		return out
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			out[fe.Field()] = fe.Tag()
		}
	}
	return out
}
