// Package contracts embeds the contract ABIs the faucet talks to.
package contracts

import _ "embed"

// ERC20 is the minimal ERC-20 interface: metadata, balanceOf, transfer and the Transfer event.
//
//go:embed erc20.json
var ERC20 string
