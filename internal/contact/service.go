package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portal-client/internal/api"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidEmail = errors.New("invalid email address")
)

// Backend is the slice of the API client the contact service needs.
type Backend interface {
	SubmitGeneralInquiry(ctx context.Context, form api.GeneralInquiry) (string, error)
	SubmitMediaInterest(ctx context.Context, form api.MediaInterest) (string, error)
}

// Service validates and submits the site's contact forms.
type Service struct {
	backend Backend
}

// New constructs a contact service.
func New(backend Backend) *Service {
	return &Service{backend: backend}
}

// validEmail applies the same loose shape check the forms use: one "@"
// with a dot somewhere after it. Real validation happens server-side.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1 && !strings.Contains(domain, "@")
}

func require(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	return nil
}

// ValidateGeneralInquiry checks the general form's required fields.
func ValidateGeneralInquiry(form api.GeneralInquiry) error {
	for _, f := range []struct{ name, value string }{
		{"name", form.Name},
		{"email", form.Email},
		{"subject", form.Subject},
		{"message", form.Message},
	} {
		if err := require(f.name, f.value); err != nil {
			return err
		}
	}
	if !validEmail(form.Email) {
		return fmt.Errorf("%w: %s", ErrInvalidEmail, form.Email)
	}
	return nil
}

// ValidateMediaInterest checks the media-interest form's required fields.
func ValidateMediaInterest(form api.MediaInterest) error {
	for _, f := range []struct{ name, value string }{
		{"name", form.Name},
		{"email", form.Email},
		{"media", form.Media},
	} {
		if err := require(f.name, f.value); err != nil {
			return err
		}
	}
	if !validEmail(form.Email) {
		return fmt.Errorf("%w: %s", ErrInvalidEmail, form.Email)
	}
	return nil
}

// SubmitGeneralInquiry validates then submits the general contact form.
func (s *Service) SubmitGeneralInquiry(ctx context.Context, form api.GeneralInquiry) (string, error) {
	if err := ValidateGeneralInquiry(form); err != nil {
		return "", err
	}
	return s.backend.SubmitGeneralInquiry(ctx, form)
}

// SubmitMediaInterest validates then submits the media-interest form.
func (s *Service) SubmitMediaInterest(ctx context.Context, form api.MediaInterest) (string, error) {
	if err := ValidateMediaInterest(form); err != nil {
		return "", err
	}
	return s.backend.SubmitMediaInterest(ctx, form)
}
