package address

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	ErrInvalidFormat   = errors.New("address must be 40 hex characters with optional 0x prefix")
	ErrInvalidChecksum = errors.New("mixed-case address fails EIP-55 checksum")
	ErrZeroAddress     = errors.New("zero address is not a valid recipient")
)

// Parse validates a recipient address the way wallets do: 20 hex encoded bytes,
// optional 0x prefix, and a valid EIP-55 checksum whenever the hex part is mixed case.
// All-lowercase and all-uppercase inputs carry no checksum and are accepted.
func Parse(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, ErrInvalidFormat
	}

	hexPart := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	addr := common.HexToAddress(s)

	if hexPart != strings.ToLower(hexPart) && hexPart != strings.ToUpper(hexPart) {
		if addr.Hex()[2:] != hexPart {
			return common.Address{}, ErrInvalidChecksum
		}
	}

	if addr == (common.Address{}) {
		return common.Address{}, ErrZeroAddress
	}

	return addr, nil
}

// IsValid reports whether Parse accepts s.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}
