package env_test

import (
	"testing"
	"time"

	"github.com/hilthontt/plugdj/internal/infrastructure/env"
	"github.com/stretchr/testify/assert"
)

func TestGetters(t *testing.T) {
	t.Setenv("PLUGDJ_TEST_STRING", "value")
	t.Setenv("PLUGDJ_TEST_INT", " 42 ")
	t.Setenv("PLUGDJ_TEST_BAD_INT", "forty")
	t.Setenv("PLUGDJ_TEST_BOOL", "true")
	t.Setenv("PLUGDJ_TEST_DURATION", "1m30s")
	t.Setenv("PLUGDJ_TEST_EMPTY", "")

	assert.Equal(t, "value", env.GetString("PLUGDJ_TEST_STRING", "x"))
	assert.Equal(t, "", env.GetString("PLUGDJ_TEST_EMPTY", "x"))
	assert.Equal(t, "x", env.GetString("PLUGDJ_TEST_UNSET", "x"))
	assert.Equal(t, 42, env.GetInt("PLUGDJ_TEST_INT", 1))
	assert.Equal(t, 1, env.GetInt("PLUGDJ_TEST_BAD_INT", 1))
	assert.True(t, env.GetBool("PLUGDJ_TEST_BOOL", false))
	assert.False(t, env.GetBool("PLUGDJ_TEST_UNSET", false))
	assert.Equal(t, 90*time.Second, env.GetDuration("PLUGDJ_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, env.GetDuration("PLUGDJ_TEST_STRING", time.Second))
}
