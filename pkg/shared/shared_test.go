package shared

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasFlags(t *testing.T) {
	flags := pflag.NewFlagSet("graph", pflag.ContinueOnError)
	flags.String("sarif", "", "")
	flags.Int("path-index", 0, "")

	require.NoError(t, flags.Parse(nil))
	assert.False(t, HasFlags(flags))

	require.NoError(t, flags.Parse([]string{"--path-index", "0"}))
	assert.True(t, HasFlags(flags))
}
