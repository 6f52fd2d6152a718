package fonts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltin(t *testing.T) {
	for _, name := range []string{"go-regular", "embed:go-regular", "embed:go-bold"} {
		data, err := Load(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data)
	}
}

func TestLoadUnknown(t *testing.T) {
	_, err := Load("embed:Inter-Regular")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "go-regular")
}

func TestNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"go-bold", "go-regular"}, Names())
}

func TestIsBuiltin(t *testing.T) {
	assert.True(t, IsBuiltin("embed:go-regular"))
	assert.True(t, IsBuiltin("go-bold"))
	assert.True(t, IsBuiltin("embed:missing"))
	assert.False(t, IsBuiltin("fonts/Inter-Regular.ttf"))
}
