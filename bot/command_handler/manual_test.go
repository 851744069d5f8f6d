package command_handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseManualArgs(t *testing.T) {
	for _, tt := range []struct {
		params []string
		name   string
		arg    string
		ok     bool
	}{
		{[]string{`"Ada`, `Lovelace"`, "z1234567"}, "Ada Lovelace", "z1234567", true},
		{[]string{`"Ada Lovelace"`, "ada@example.com"}, "Ada Lovelace", "ada@example.com", true},
		{[]string{"Ada", "z1234567"}, "Ada", "z1234567", true},
		{[]string{`"Ada`, "Lovelace", "z1234567"}, "", "", false},
		{[]string{`""`, "z1234567"}, "", "", false},
		{[]string{`"Ada Lovelace"`}, "", "", false},
		{[]string{"Ada", "Lovelace", "z1234567"}, "", "", false},
		{[]string{`"Ada Lovelace"`, "two", "args"}, "", "", false},
	} {
		name, arg, ok := parseManualArgs(tt.params)
		assert.Equal(t, tt.ok, ok, "params %v", tt.params)
		assert.Equal(t, tt.name, name, "params %v", tt.params)
		assert.Equal(t, tt.arg, arg, "params %v", tt.params)
	}
}
