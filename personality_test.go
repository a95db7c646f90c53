package twob_test

import (
	"testing"

	"github.com/nekyl/twob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonalityByName(t *testing.T) {
	t.Parallel()

	t.Run("known personality", func(t *testing.T) {
		t.Parallel()
		p, err := twob.PersonalityByName("hacker")
		require.NoError(t, err)
		assert.Equal(t, "hacker", p.Name)
		assert.Contains(t, p.SystemPrompt("Ada"), "Ada")
	})

	t.Run("unknown personality", func(t *testing.T) {
		t.Parallel()
		_, err := twob.PersonalityByName("grumpy")
		assert.Equal(t, twob.ENOTFOUND, twob.ErrorCode(err))
	})
}

func TestPersonalityOrDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fofa", twob.PersonalityOrDefault("fofa").Name)
	assert.Equal(t, twob.DefaultPersonality, twob.PersonalityOrDefault("").Name)
	assert.Equal(t, twob.DefaultPersonality, twob.PersonalityOrDefault("nope").Name)
}

func TestPersonalityNames(t *testing.T) {
	t.Parallel()

	names := twob.PersonalityNames()
	require.Len(t, names, 3)
	for _, name := range names {
		_, err := twob.PersonalityByName(name)
		assert.NoError(t, err)
	}
}
