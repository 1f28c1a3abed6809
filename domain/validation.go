package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	phonePattern = regexp.MustCompile(`^0[0-9]{9}$`)
	codePattern  = regexp.MustCompile(`^[0-9]{6}$`)
	slugPattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{2,39}$`)
)

// ValidatePhone checks the national mobile format: a leading zero and nine digits
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// ValidateCode checks that a submitted OTP is exactly six digits
func ValidateCode(code string) error {
	if !codePattern.MatchString(code) {
		return ErrInvalidCode
	}
	return nil
}

// ValidateSlug checks a shop slug
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return ErrInvalidSlug
	}
	return nil
}

// MaskPhone hides the middle digits of a phone for logs
func MaskPhone(phone string) string {
	if len(phone) < 7 {
		return "****"
	}
	return phone[:3] + strings.Repeat("*", len(phone)-6) + phone[len(phone)-3:]
}

// EncodeCredential renders the cookie value "<actor_id>.<token>"
func EncodeCredential(c *ClientCredential) string {
	return fmt.Sprintf("%d.%s", c.ActorID, c.Token)
}

// DecodeCredential parses a cookie value for the given role
func DecodeCredential(role Role, value string) (*ClientCredential, error) {
	idPart, token, ok := strings.Cut(value, ".")
	if !ok || idPart == "" || token == "" {
		return nil, ErrInvalidCredential
	}
	id, err := strconv.ParseUint(idPart, 10, strconv.IntSize)
	if err != nil || id == 0 {
		return nil, ErrInvalidCredential
	}
	return &ClientCredential{Role: role, ActorID: uint(id), Token: token}, nil
}
