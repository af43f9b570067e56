package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSets(t *testing.T) {
	fields, err := parseSets([]string{"name=Krakow Guild", "guildIds=[\"g-1\",\"g-2\"]", "motto=null", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "Krakow Guild", fields["name"])
	assert.Equal(t, []any{"g-1", "g-2"}, fields["guildIds"])
	assert.Contains(t, fields, "motto")
	assert.Nil(t, fields["motto"])
	assert.Equal(t, "a=b", fields["note"])

	_, err = parseSets([]string{"=x"})
	assert.Error(t, err)
	_, err = parseSets([]string{"name"})
	assert.Error(t, err)
}

func TestResourceArg(t *testing.T) {
	got, err := resourceArg("wound")
	require.NoError(t, err)
	assert.Equal(t, "wounds", got)

	_, err = resourceArg("dragons")
	assert.ErrorContains(t, err, `unknown resource "dragons"`)
}

func TestCell(t *testing.T) {
	assert.Equal(t, "-", cell(nil))
	assert.Equal(t, "g-1,g-2", cell([]any{"g-1", "g-2"}))
	assert.Equal(t, "leader", cell("leader"))
}
