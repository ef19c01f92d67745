package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFramework_IsValid tests framework recognition
func TestFramework_IsValid(t *testing.T) {
	assert.True(t, FrameworkEUMDR.IsValid())
	assert.True(t, FrameworkFDA510K.IsValid())
	assert.True(t, FrameworkISO14155.IsValid())
	assert.False(t, Framework("pmda-japan").IsValid())
	assert.False(t, Framework("").IsValid())
}

// TestFramework_Description tests human-readable descriptions
func TestFramework_Description(t *testing.T) {
	assert.Contains(t, FrameworkEUMDR.Description(), "2017/745")
	assert.Equal(t, unknownDescription, Framework("x").Description())
}
