// Package validate decides whether a string is a well-formed URL worth tracing.
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// MaxURLLength is the longest candidate accepted, counted after trimming.
	MaxURLLength = 2048
	// MaxDomainLength bounds the host name, port excluded.
	MaxDomainLength = 253
	// MaxLabelLength bounds a single dot-separated DNS label and the TLD.
	MaxLabelLength = 63
	// MaxCredentialLength bounds the user and the password of a userinfo block.
	MaxCredentialLength = 255
	// MaxPortDigits bounds the optional :port suffix.
	MaxPortDigits = 5
)

var (
	// SchemePattern matches the accepted schemes and their defanged spellings.
	SchemePattern = regexp.MustCompile(`(?i)^(?:http|hxxp|ftp|fxp|fxxp)s?$`)

	// DomainPattern matches localhost or dot-separated labels ending in a TLD,
	// followed by an optional port.
	DomainPattern = regexp.MustCompile(fmt.Sprintf(
		`(?i)^(?:localhost|(?:[a-z0-9](?:[a-z0-9-]{0,%d}[a-z0-9])?\.)+[a-z0-9]{1,%d})(?::\d{1,%d})?$`,
		MaxLabelLength-2, MaxLabelLength, MaxPortDigits,
	))

	userPattern = regexp.MustCompile(fmt.Sprintf(`^\w{1,%d}$`, MaxCredentialLength))
)

var (
	ErrEmpty       = errors.New("empty url")
	ErrTooLong     = errors.New("url too long")
	ErrMalformed   = errors.New("malformed url")
	ErrScheme      = errors.New("unsupported scheme")
	ErrCredentials = errors.New("invalid credentials")
	ErrDomain      = errors.New("invalid domain")
)

// IsValid reports whether candidate is a syntactically acceptable URL.
func IsValid(candidate string) bool {
	return Check(candidate) == nil
}

// Check validates candidate and returns the first reason it was rejected.
// Surrounding whitespace is ignored.
func Check(candidate string) error {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ErrEmpty
	}
	if err := validation.Validate(candidate, validation.RuneLength(1, MaxURLLength)); err != nil {
		return fmt.Errorf("%w: %v", ErrTooLong, err)
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := validation.Validate(parsed.Scheme,
		validation.Required.Error("scheme is required"),
		validation.Match(SchemePattern).Error("scheme is not allowed"),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrScheme, err)
	}

	if parsed.Host == "" && parsed.User == nil {
		return fmt.Errorf("%w: authority is empty", ErrDomain)
	}
	if err := checkCredentials(parsed.User); err != nil {
		return fmt.Errorf("%w: %v", ErrCredentials, err)
	}
	if !ValidDomain(parsed.Host) {
		return fmt.Errorf("%w: %q", ErrDomain, parsed.Host)
	}

	return nil
}

// ValidScheme reports whether scheme is one of the accepted schemes.
func ValidScheme(scheme string) bool {
	return SchemePattern.MatchString(scheme)
}

// ValidDomain reports whether hostport is localhost or a DNS name, with an
// optional port, and the name part is at most MaxDomainLength long.
func ValidDomain(hostport string) bool {
	if !DomainPattern.MatchString(hostport) {
		return false
	}
	host, _, _ := strings.Cut(hostport, ":")
	return len(host) <= MaxDomainLength
}

// checkCredentials validates an optional user:pass block. A userinfo block
// must carry both parts.
func checkCredentials(user *url.Userinfo) error {
	if user == nil {
		return nil
	}
	password, ok := user.Password()
	return validation.Errors{
		"user": validation.Validate(user.Username(),
			validation.Required,
			validation.Match(userPattern),
		),
		"password": validation.Validate(password,
			validation.By(func(interface{}) error {
				if !ok || password == "" {
					return errors.New("cannot be blank")
				}
				if utf8.RuneCountInString(password) > MaxCredentialLength {
					return fmt.Errorf("must be at most %d characters", MaxCredentialLength)
				}
				return nil
			}),
		),
	}.Filter()
}
