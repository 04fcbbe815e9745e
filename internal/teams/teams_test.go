package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	assert.Equal(t, 33, r.Len())

	info := r.Lookup("Montréal Canadiens")
	assert.Equal(t, "MTL", info.Abbreviation)
	assert.Equal(t, []string{"#AF1E2D", "#192168", "#FFFFFF"}, info.Colors)
}

func TestLookupUnknownTeam(t *testing.T) {
	info := Default().Lookup("Quebec Nordiques")
	assert.Equal(t, "QUE", info.Abbreviation)
	assert.Equal(t, neutralColors, info.Colors)

	assert.Equal(t, "???", Default().Lookup("").Abbreviation)
}

func TestParseRejectsIncompleteEntries(t *testing.T) {
	_, err := Parse([]byte("teams:\n  - name: Somewhere\n"))
	require.Error(t, err)

	_, err = Parse([]byte("teams: [oops"))
	require.Error(t, err)
}
