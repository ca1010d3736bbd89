package util_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github/chapool/go-faucet/internal/util"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("FAUCET_TEST_INT", "42")
	t.Setenv("FAUCET_TEST_BOOL", "true")
	t.Setenv("FAUCET_TEST_DURATION", "3s")
	t.Setenv("FAUCET_TEST_BIG", "1000000000000000000000")
	t.Setenv("FAUCET_TEST_BIG_BROKEN", "12abc")
	t.Setenv("FAUCET_TEST_ARR", " https://a.example , ,https://b.example")
	t.Setenv("FAUCET_TEST_LEGACY", "legacy")

	assert.Equal(t, 42, util.GetEnvAsInt("FAUCET_TEST_INT", 1))
	assert.Equal(t, uint64(42), util.GetEnvAsUint64("FAUCET_TEST_INT", 1))
	assert.Equal(t, 7, util.GetEnvAsInt("FAUCET_TEST_UNSET", 7))
	assert.True(t, util.GetEnvAsBool("FAUCET_TEST_BOOL", false))
	assert.Equal(t, 3*time.Second, util.GetEnvAsDuration("FAUCET_TEST_DURATION", time.Second))

	expected, _ := new(big.Int).SetString("1000000000000000000000", 10)
	assert.Equal(t, 0, expected.Cmp(util.GetEnvAsBigInt("FAUCET_TEST_BIG", big.NewInt(1))))
	assert.Equal(t, int64(5), util.GetEnvAsBigInt("FAUCET_TEST_BIG_BROKEN", big.NewInt(5)).Int64())

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, util.GetEnvAsStringArr("FAUCET_TEST_ARR", nil))
	assert.Equal(t, "legacy", util.GetEnvFirst([]string{"FAUCET_TEST_NEW", "FAUCET_TEST_LEGACY"}, "default"))
	assert.Equal(t, "default", util.GetEnvFirst([]string{"FAUCET_TEST_NEW"}, "default"))
}
