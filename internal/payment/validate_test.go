package payment

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckBuyerNameBounds(t *testing.T) {
	rig := newTestRig(t, 10*time.Minute)

	req := validBuyer()
	req.FirstName = "   "
	_, fields := rig.service.checkBuyer(req)
	require.Len(t, fields, 1)
	assert.Equal(t, "firstName", fields[0].Field)

	req = validBuyer()
	req.LastName = strings.Repeat("x", 51)
	_, fields = rig.service.checkBuyer(req)
	require.Len(t, fields, 1)
	assert.Equal(t, "lastName", fields[0].Field)

	// Exactly 50 after trimming is accepted.
	req = validBuyer()
	req.FirstName = "  " + strings.Repeat("x", 50) + "  "
	buyer, fields := rig.service.checkBuyer(req)
	assert.Nil(t, fields)
	assert.Len(t, buyer.FirstName, 50)
}

func TestCheckBuyerNormalizes(t *testing.T) {
	rig := newTestRig(t, 10*time.Minute)

	req := validBuyer()
	req.Email = "  Ava@Example.COM "
	buyer, fields := rig.service.checkBuyer(req)
	require.Nil(t, fields)

	assert.Equal(t, "ava@example.com", buyer.Email)
	assert.Equal(t, "+61412345678", buyer.Phone)
	assert.True(t, buyer.Validated)
	assert.Len(t, buyer.EmailHash, 64)
	assert.Len(t, buyer.PhoneHash, 64)
	assert.NotContains(t, buyer.EmailHash, "@")
}

func TestCheckBuyerCollectsAllFailures(t *testing.T) {
	rig := newTestRig(t, 10*time.Minute)

	_, fields := rig.service.checkBuyer(BuyerRequest{})
	assert.Len(t, fields, 4)
}

func TestCheckBuyerPhoneFallbackWithoutCountry(t *testing.T) {
	rig := newTestRig(t, 10*time.Minute)

	req := validBuyer()
	req.CountryCode = ""
	req.Phone = "+61 412 345 678"
	buyer, fields := rig.service.checkBuyer(req)
	require.Nil(t, fields)
	// Without a country the number passes the digit-count rule unformatted.
	assert.Equal(t, "+61 412 345 678", buyer.Phone)

	req.Phone = "12345"
	_, fields = rig.service.checkBuyer(req)
	require.Len(t, fields, 1)
	assert.Equal(t, "phone", fields[0].Field)
}
