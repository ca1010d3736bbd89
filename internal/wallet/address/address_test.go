package address_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-faucet/internal/wallet/address"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"checksummed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", nil},
		{"lowercase", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", nil},
		{"uppercase", "0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED", nil},
		{"no prefix", "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", nil},
		{"bad checksum", "0x5aaeb6053F3E94C9b9A09f33669435E7Ef1BeAed", address.ErrInvalidChecksum},
		{"too short", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1bea", address.ErrInvalidFormat},
		{"too long", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed00", address.ErrInvalidFormat},
		{"non hex", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaeg", address.ErrInvalidFormat},
		{"empty", "", address.ErrInvalidFormat},
		{"ens name", "vitalik.eth", address.ErrInvalidFormat},
		{"zero", "0x0000000000000000000000000000000000000000", address.ErrZeroAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := address.Parse(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.False(t, address.IsValid(tt.input))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", addr.Hex())
			assert.True(t, address.IsValid(tt.input))
		})
	}
}
