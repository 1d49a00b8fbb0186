package lints

import (
	"testing"

	"github.com/aseptimu/nag/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	store := host.NewStore()
	sess := host.NewSession("examplenag", nil, []string{"nag"}, "")
	Register(sess, store)
	require.NoError(t, store.Err())

	level, ok := store.Level("exitmain")
	require.True(t, ok)
	assert.Equal(t, host.Warn, level)

	passes, err := store.Analyzers(sess)
	require.NoError(t, err)
	require.Len(t, passes, 1)
	assert.Equal(t, "exitmain", passes[0].Name)
}
