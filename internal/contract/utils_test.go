package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoolString(t *testing.T) {
	trues := []string{"yes", "YES", "true", "True", "1"}
	for _, s := range trues {
		v, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}

	falses := []string{"no", "NO", "false", "False", "0"}
	for _, s := range falses {
		v, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}

	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "Morning Run", TruncateName("Morning Run", 20))
	assert.Equal(t, "Morning...", TruncateName("Morning Run around the lake", 10))
	// Widths too small for an ellipsis leave the name untouched.
	assert.Equal(t, "Morning Run", TruncateName("Morning Run", 3))
}

func TestGetColorStatusPassthrough(t *testing.T) {
	// Unknown statuses come back uncolored and unchanged.
	assert.Equal(t, "Weird", GetColorStatus("Weird"))
}
