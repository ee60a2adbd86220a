package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateByCountry(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		number  string
		country string
		want    bool
	}{
		{"US ten digits", "2015550123", "US", true},
		{"US formatted", "(201) 555-0123", "US", true},
		{"US with leading one", "12015550123", "US", true},
		{"US too short", "555012", "US", false},
		{"AU with trunk zero rejected", "0412345678", "AU", false},
		{"AU mobile without trunk zero", "412345678", "AU", true},
		{"GB mobile", "7700900123", "GB", true},
		{"IN mobile", "9999912345", "IN", true},
		{"IN bad leading digit", "1999912345", "IN", false},
		{"unknown country falls back to length rule", "12345678", "DE", true},
		{"too long everywhere", "1234567890123456", "DE", false},
		{"empty number", "", "US", false},
		{"empty country", "2015550123", "", false},
		{"unmapped country", "2015550123", "XX", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.number, tt.country))
		})
	}
}

func TestValidateLowercaseCountry(t *testing.T) {
	v := NewValidator()
	assert.True(t, v.Validate("2015550123", "us"))
}

func TestFormatE164(t *testing.T) {
	v := NewValidator()

	assert.Equal(t, "+12015550123", v.FormatE164("(201) 555-0123", "US"))
	assert.Equal(t, "+61412345678", v.FormatE164("412 345 678", "AU"))
	// Numbers already carrying the dial code are not double-prefixed.
	assert.Equal(t, "+12015550123", v.FormatE164("+1 201 555 0123", "US"))
	// Unknown country passes through untouched.
	assert.Equal(t, "2015550123", v.FormatE164("2015550123", "XX"))
}

func TestDialCode(t *testing.T) {
	code, ok := DialCode("au")
	assert.True(t, ok)
	assert.Equal(t, "+61", code)

	_, ok = DialCode("XX")
	assert.False(t, ok)
}
