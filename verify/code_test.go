package verify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCodeDeterministic(t *testing.T) {
	gen := NewCodeGenerator([]byte("secret"))
	nonce := time.Unix(1700000000, 0)

	assert.Equal(t, gen.Code(42, nonce), gen.Code(42, nonce))
	assert.Len(t, gen.Code(42, nonce), 64)
}

func TestCodeVariesWithInputs(t *testing.T) {
	gen := NewCodeGenerator([]byte("secret"))
	nonce := time.Unix(1700000000, 0)

	assert.NotEqual(t, gen.Code(42, nonce), gen.Code(43, nonce))
	assert.NotEqual(t, gen.Code(42, nonce), gen.Code(42, nonce.Add(time.Second)))
	assert.NotEqual(t, gen.Code(42, nonce), NewCodeGenerator([]byte("other")).Code(42, nonce))
}

func TestCodeRoundTrip(t *testing.T) {
	gen := NewCodeGenerator([]byte("secret"))
	nonce := time.Unix(1700000000, 0)

	code := gen.Code(42, nonce)
	assert.True(t, gen.Verify(42, nonce, code))
	assert.False(t, gen.Verify(42, nonce.Add(time.Second), code), "rotated nonce must invalidate the code")
	assert.False(t, gen.Verify(42, nonce, code+"0"))
	assert.False(t, gen.Verify(42, nonce, ""))
}
