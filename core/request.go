package core

import (
	"fmt"
	"net"
	"net/http"
	"net/mail"
	"strings"
	"time"
)

// MimeTypeJSON is the only request content type the API accepts.
const MimeTypeJSON = "application/json"

// dateOfBirthFormat is the wire and storage format for dates of birth.
const dateOfBirthFormat = "2006-01-02"

// maxNameLength bounds the display name; longer is a client error, not
// something to silently truncate.
const maxNameLength = 255

// ValidateEmail checks if an email address is valid according to RFC 5322.
// Returns nil if valid, or an error describing why the email is invalid.
func ValidateEmail(email string) error {
	_, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	return nil
}

// ValidateName checks a display name: non-empty after trimming, bounded.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("name exceeds %d characters", maxNameLength)
	}
	return nil
}

// ValidateDateOfBirth checks the "YYYY-MM-DD" format and rejects future
// dates. The placeholder date used for OAuth2 accounts passes.
func ValidateDateOfBirth(dob string) error {
	t, err := time.Parse(dateOfBirthFormat, dob)
	if err != nil {
		return fmt.Errorf("invalid date of birth: %w", err)
	}
	if t.After(time.Now().UTC()) {
		return fmt.Errorf("date of birth lies in the future")
	}
	return nil
}

// getClientIP extracts the client IP address from the request, honoring the
// configured proxy header when present.
func (a *App) getClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	cfg := a.Config()
	if cfg.Server.ClientIpProxyHeader != "" {
		if forwarded := r.Header.Get(cfg.Server.ClientIpProxyHeader); forwarded != "" {
			// Use the first IP in the list if header contains multiple
			parts := strings.Split(forwarded, ",")
			ip = strings.TrimSpace(parts[0])
		}
	}
	return ip
}
