package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	Env = map[string]string{"FROM_FILE": "file"}
	t.Cleanup(func() { Env = nil })
	t.Setenv("FROM_FILE", "process")
	t.Setenv("FROM_PROCESS", "process")

	assert.Equal(t, "file", GetEnv("FROM_FILE", "def"))
	assert.Equal(t, "process", GetEnv("FROM_PROCESS", "def"))
	assert.Equal(t, "def", GetEnv("UNSET_KEY_FOR_TEST", "def"))
}

func TestIsDev(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	assert.True(t, IsDev())
	t.Setenv("APP_ENV", "prod")
	assert.False(t, IsDev())
}
