package projects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, ValidCategory(c), c)
	}
	assert.False(t, ValidCategory("web"))
	assert.False(t, ValidCategory(""))
}

func TestListOrder(t *testing.T) {
	assert.Equal(t, "order by p.completion_date desc", listOrder(""))
	assert.Equal(t, "order by p.completion_date desc", listOrder(SortByCompletion))
	assert.Equal(t, "order by p.created_at desc", listOrder(SortByCreated))
}

func TestValidStatus(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("done"))
	assert.False(t, ValidStatus(""))
}
