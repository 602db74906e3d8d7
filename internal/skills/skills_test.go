package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, ValidCategory(c), c)
	}
	assert.False(t, ValidCategory("design"))
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("Frontend"))
}

func TestValidProficiency(t *testing.T) {
	for _, p := range Proficiencies {
		assert.True(t, ValidProficiency(p), p)
	}
	assert.False(t, ValidProficiency("master"))
	assert.False(t, ValidProficiency(""))
}

func TestValidIconLibrary(t *testing.T) {
	assert.True(t, ValidIconLibrary("fontawesome"))
	assert.True(t, ValidIconLibrary("custom"))
	assert.False(t, ValidIconLibrary("react-icons"))
	assert.False(t, ValidIconLibrary(""))
}

func TestValidIconName(t *testing.T) {
	assert.True(t, ValidIconName("go"))
	assert.True(t, ValidIconName("node-js"))
	assert.True(t, ValidIconName("css3"))
	assert.False(t, ValidIconName(""))
	assert.False(t, ValidIconName("-leading-dash"))
	assert.False(t, ValidIconName("Upper"))
	assert.False(t, ValidIconName("<script>"))
}
