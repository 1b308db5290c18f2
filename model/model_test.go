package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	for _, status := range []string{"submitted", "accepted", "completed", "cancelled"} {
		assert.True(t, ValidStatus(status), status)
	}
	assert.False(t, ValidStatus("shipped"))
	assert.False(t, ValidStatus(""))
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "主食", CategoryLabel("main"))
	assert.Equal(t, "甜品", CategoryLabel("dessert"))
	// Unknown categories use their raw value as the label.
	assert.Equal(t, "seasonal", CategoryLabel("seasonal"))
}
