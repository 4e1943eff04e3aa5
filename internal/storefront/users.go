package storefront

import (
	"errors"
	"fmt"
)

// Password is shared by every storefront account.
const Password = "secret_sauce"

// Account names, as on the public demo.
const (
	StandardUser          = "standard_user"
	LockedOutUser         = "locked_out_user"
	ProblemUser           = "problem_user"
	PerformanceGlitchUser = "performance_glitch_user"
	ErrorUser             = "error_user"
	VisualUser            = "visual_user"
)

// Login errors. Their text is shown verbatim under the login form.
var (
	ErrUsernameRequired = errors.New("Epic sadface: Username is required")
	ErrPasswordRequired = errors.New("Epic sadface: Password is required")
	ErrLockedOut        = errors.New("Epic sadface: Sorry, this user has been locked out.")
	ErrBadCredentials   = errors.New("Epic sadface: Username and password do not match any user in this service")
)

// user describes how an account misbehaves.
type user struct {
	locked       bool
	slowLogin    bool
	ignoresSort  bool
	failsFinish  bool
	visualGlitch bool
}

var users = map[string]user{
	StandardUser:          {},
	LockedOutUser:         {locked: true},
	ProblemUser:           {ignoresSort: true},
	PerformanceGlitchUser: {slowLogin: true},
	ErrorUser:             {failsFinish: true},
	VisualUser:            {visualGlitch: true},
}

// authenticate checks credentials in the order the login form reports
// problems.
func authenticate(username, password string) (user, error) {
	if username == "" {
		return user{}, ErrUsernameRequired
	}
	if password == "" {
		return user{}, ErrPasswordRequired
	}
	u, ok := users[username]
	if !ok || password != Password {
		return user{}, ErrBadCredentials
	}
	if u.locked {
		return user{}, ErrLockedOut
	}
	return u, nil
}

// accessDenied is shown on the login screen after a redirect from a page
// that needs a session.
func accessDenied(path string) string {
	return fmt.Sprintf("Epic sadface: You can only access '%s' when you are logged in.", path)
}
