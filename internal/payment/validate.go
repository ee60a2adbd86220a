package payment

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/go-playground/validator/v10"

	"tixmojo-server/internal/models"
)

var validate = validator.New()

const maxNameLength = 50

// BuyerRequest is the buyer payload submitted during checkout.
type BuyerRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CountryCode string `json:"countryCode"`
}

// checkBuyer validates the buyer fields and returns the normalized buyer
// info, or the per-field failures. Names are trimmed before the length
// check; phone validation is country-aware when a country code is present.
func (s *Service) checkBuyer(req BuyerRequest) (*models.BuyerInfo, []FieldError) {
	var fields []FieldError

	firstName := strings.TrimSpace(req.FirstName)
	if len(firstName) == 0 || len(firstName) > maxNameLength {
		fields = append(fields, FieldError{Field: "firstName", Message: "First name must be between 1 and 50 characters"})
	}

	lastName := strings.TrimSpace(req.LastName)
	if len(lastName) == 0 || len(lastName) > maxNameLength {
		fields = append(fields, FieldError{Field: "lastName", Message: "Last name must be between 1 and 50 characters"})
	}

	email := strings.TrimSpace(req.Email)
	if err := validate.Var(email, "required,email"); err != nil {
		fields = append(fields, FieldError{Field: "email", Message: "A valid email address is required"})
	}

	phoneNumber := strings.TrimSpace(req.Phone)
	countryCode := strings.TrimSpace(req.CountryCode)
	switch {
	case phoneNumber == "":
		fields = append(fields, FieldError{Field: "phone", Message: "Phone number is required"})
	case countryCode != "":
		if !s.phones.Validate(phoneNumber, countryCode) {
			fields = append(fields, FieldError{Field: "phone", Message: "Invalid phone number for country " + strings.ToUpper(countryCode)})
		}
	default:
		// No country supplied; fall back to the digit-count rule.
		digits := 0
		for _, r := range phoneNumber {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits < 7 || digits > 15 {
			fields = append(fields, FieldError{Field: "phone", Message: "Phone number must contain 7 to 15 digits"})
		}
	}

	if len(fields) > 0 {
		return nil, fields
	}

	normalizedEmail := strings.ToLower(email)
	if countryCode != "" {
		phoneNumber = s.phones.FormatE164(phoneNumber, countryCode)
	}

	return &models.BuyerInfo{
		FirstName: firstName,
		LastName:  lastName,
		Email:     normalizedEmail,
		Phone:     phoneNumber,
		EmailHash: hashPII(normalizedEmail),
		PhoneHash: hashPII(phoneNumber),
		Validated: true,
	}, nil
}

// hashPII is what log lines and durable sinks carry instead of the clear
// email or phone.
func hashPII(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
