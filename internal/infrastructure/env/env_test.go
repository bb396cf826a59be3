package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvService_Getters(t *testing.T) {
	t.Setenv("AR_TEST_STR", "  value ")
	t.Setenv("AR_TEST_BOOL", "true")
	t.Setenv("AR_TEST_BAD_BOOL", "maybe")
	t.Setenv("AR_TEST_INT", "42")
	t.Setenv("AR_TEST_BAD_INT", "forty")

	e := NewStaticEnvService()

	assert.Equal(t, "value", e.Get("AR_TEST_STR"))
	assert.Equal(t, "fallback", e.GetWithDefault("AR_TEST_MISSING", "fallback"))
	assert.True(t, e.GetBool("AR_TEST_BOOL", false))
	assert.True(t, e.GetBool("AR_TEST_BAD_BOOL", true))
	assert.Equal(t, 42, e.GetInt("AR_TEST_INT", 0))
	assert.Equal(t, 7, e.GetInt("AR_TEST_BAD_INT", 7))
	assert.Equal(t, 7, e.GetInt("AR_TEST_MISSING", 7))
}
