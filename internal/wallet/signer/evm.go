package signer

import (
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// SignTx builds the transaction described by req and signs it. EIP-1559 (DynamicFeeTx)
// is used when GasFeeCap is set, a legacy transaction otherwise.
func (s *Signer) SignTx(req *TxRequest) (*types.Transaction, error) {
	if req.ChainID == nil {
		return nil, errors.New("chain ID is required")
	}

	to := req.To

	var txData types.TxData
	if req.GasFeeCap != nil {
		txData = &types.DynamicFeeTx{
			ChainID:   req.ChainID,
			Nonce:     req.Nonce,
			GasTipCap: req.GasTipCap,
			GasFeeCap: req.GasFeeCap,
			Gas:       req.GasLimit,
			To:        &to,
			Value:     req.Value,
			Data:      req.Data,
		}
	} else {
		if req.GasPrice == nil {
			return nil, errors.New("gas price is required for legacy transactions")
		}
		txData = &types.LegacyTx{
			Nonce:    req.Nonce,
			GasPrice: req.GasPrice,
			Gas:      req.GasLimit,
			To:       &to,
			Value:    req.Value,
			Data:     req.Data,
		}
	}

	signed, err := types.SignNewTx(s.key, types.LatestSignerForChainID(req.ChainID), txData)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	return signed, nil
}
