package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAddress(t *testing.T) {
	for _, addr := range []string{
		"someone@example.com",
		"first.last+tag@sub.example.co",
		"z1234567@student.test.edu",
	} {
		assert.True(t, ValidAddress(addr), addr)
	}
	for _, addr := range []string{
		"",
		"plainaddress",
		"@example.com",
		"someone@",
		"someone@example",
		"some one@example.com",
		"someone@exa mple.com",
		"someone@@example.com",
	} {
		assert.False(t, ValidAddress(addr), addr)
	}
}
