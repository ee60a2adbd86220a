package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSessionID(t *testing.T) {
	id := GenerateSessionID()
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), id)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		next := GenerateSessionID()
		assert.False(t, seen[next], "session ids must not repeat")
		seen[next] = true
	}
}

func TestGenerateOrderID(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{13}-\d{1,3}$`), GenerateOrderID(false))
	assert.Regexp(t, regexp.MustCompile(`^ORD-SIM-\d{13}-\d{1,3}$`), GenerateOrderID(true))
}

func TestRandomHex(t *testing.T) {
	assert.Len(t, RandomHex(12), 24)
	assert.NotEqual(t, RandomHex(12), RandomHex(12))
}
