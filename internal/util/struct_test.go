package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-faucet/internal/util"
)

type initTest struct {
	Name    *string
	Skipped *string `wire:"-"`
	Values  []int
	private *string
}

func TestIsStructInitialized(t *testing.T) {
	name := "faucet"

	err := util.IsStructInitialized(&initTest{Name: &name, Values: []int{1}})
	require.NoError(t, err)

	err = util.IsStructInitialized(&initTest{Values: []int{1}})
	require.ErrorIs(t, err, util.ErrStructNotInitialized)
	assert.Contains(t, err.Error(), "Name")
	assert.NotContains(t, err.Error(), "Skipped")

	err = util.IsStructInitialized((*initTest)(nil))
	require.ErrorIs(t, err, util.ErrStructNotInitialized)

	err = util.IsStructInitialized(42)
	require.Error(t, err)
}
