package api

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// emailShape is a permissive shape check: one @, no spaces, a dot in the
// domain. Real deliverability is out of scope for the boundary.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLen = 8

func validateSignUp(req signUpRequest, maxBioLen int) []string {
	var msgs []string

	if strings.TrimSpace(req.Email) == "" {
		msgs = append(msgs, "email is required")
	} else if !emailShape.MatchString(strings.TrimSpace(req.Email)) {
		msgs = append(msgs, "email must be a valid address")
	}
	if strings.TrimSpace(req.Username) == "" {
		msgs = append(msgs, "username is required")
	}
	if len(req.Password) < minPasswordLen {
		msgs = append(msgs, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if strings.TrimSpace(req.Profile.FirstName) == "" {
		msgs = append(msgs, "profile.firstName is required")
	}
	if strings.TrimSpace(req.Profile.LastName) == "" {
		msgs = append(msgs, "profile.lastName is required")
	}
	if len(req.Profile.Bio) > maxBioLen {
		msgs = append(msgs, fmt.Sprintf("profile.bio must be at most %d characters", maxBioLen))
	}

	return msgs
}

func validateSignIn(req signInRequest) []string {
	var msgs []string

	if strings.TrimSpace(req.Email) == "" {
		msgs = append(msgs, "email is required")
	}
	if req.Password == "" {
		msgs = append(msgs, "password is required")
	}

	return msgs
}

func validateUserUpdate(req userUpdateRequest, maxBioLen int) []string {
	var msgs []string

	if req.Email != nil && !emailShape.MatchString(strings.TrimSpace(*req.Email)) {
		msgs = append(msgs, "email must be a valid address")
	}
	if req.Username != nil && strings.TrimSpace(*req.Username) == "" {
		msgs = append(msgs, "username must not be empty")
	}
	if req.Profile != nil {
		msgs = append(msgs, validateProfileUpdate(*req.Profile, maxBioLen)...)
	}

	return msgs
}

func validateProfileCreate(req profileCreateRequest, maxBioLen int) []string {
	var msgs []string

	if strings.TrimSpace(req.FirstName) == "" {
		msgs = append(msgs, "firstName is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		msgs = append(msgs, "lastName is required")
	}
	if len(req.Bio) > maxBioLen {
		msgs = append(msgs, fmt.Sprintf("bio must be at most %d characters", maxBioLen))
	}

	return msgs
}

func validateProfileUpdate(req profileUpdateRequest, maxBioLen int) []string {
	var msgs []string

	if req.FirstName != nil && strings.TrimSpace(*req.FirstName) == "" {
		msgs = append(msgs, "firstName must not be empty")
	}
	if req.LastName != nil && strings.TrimSpace(*req.LastName) == "" {
		msgs = append(msgs, "lastName must not be empty")
	}
	if req.Bio != nil && len(*req.Bio) > maxBioLen {
		msgs = append(msgs, fmt.Sprintf("bio must be at most %d characters", maxBioLen))
	}

	return msgs
}

// queryInt64 parses an integer query parameter; absent or blank returns def.
func queryInt64(raw string, def int64) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	return n, nil
}
