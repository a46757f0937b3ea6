package quadauth

import "fmt"

// Rejection codes for expected, user-facing authentication failures.
const (
	CodeEmailExists     = "email_exists"
	CodeInvalidCreds    = "invalid_credentials"
	CodeMissingField    = "missing_field"
	CodeUnknownProvider = "unknown_provider"
)

// Rejection is an expected validation failure: duplicate email on
// signup, bad credentials on login. It is surfaced to the user as a
// flash message and a redirect back to the originating form, never as
// a request failure. Store failures are ordinary errors and do not use
// this type.
type Rejection struct {
	Code    string
	Message string
	Field   string
}

func NewRejection(code, message, field string) *Rejection {
	return &Rejection{Code: code, Message: message, Field: field}
}

func (r *Rejection) Error() string {
	if r.Field != "" {
		return fmt.Sprintf("%s (%s): %s", r.Code, r.Field, r.Message)
	}
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

// The flash texts shown for the two core rejections. Kept as the
// user-facing wording the login and signup forms render.
const (
	msgEmailExists  = "Sorry, a user with that email already exists."
	msgInvalidCreds = "Invalid email or password."
)
