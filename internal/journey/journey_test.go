package journey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidYear(t *testing.T) {
	now := time.Now().Year()

	assert.True(t, validYear(1900))
	assert.True(t, validYear(now))
	assert.True(t, validYear(now+10))
	assert.False(t, validYear(1899))
	assert.False(t, validYear(now+11))
	assert.False(t, validYear(0))
}
