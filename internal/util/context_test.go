package util_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-faucet/internal/util"
)

func TestRequestIDFromContext(t *testing.T) {
	ctx := context.Background()

	_, err := util.RequestIDFromContext(ctx)
	require.ErrorIs(t, err, util.ErrContextValueNotFound)

	_, err = util.RequestIDFromContext(context.WithValue(ctx, util.CTXKeyRequestID, 42))
	require.ErrorIs(t, err, util.ErrContextValueInvalidType)

	id, err := util.RequestIDFromContext(context.WithValue(ctx, util.CTXKeyRequestID, "abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
}

func TestLogFromContext(t *testing.T) {
	ctx := context.Background()

	assert.NotEqual(t, zerolog.Disabled, util.LogFromContext(ctx).GetLevel())
	assert.False(t, util.ShouldDisableLogger(ctx))

	ctx = util.DisableLogger(ctx, true)
	assert.True(t, util.ShouldDisableLogger(ctx))
	assert.Equal(t, zerolog.Disabled, util.LogFromContext(ctx).GetLevel())
}
