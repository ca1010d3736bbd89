package faucet_test

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-faucet/internal/api"
	"github/chapool/go-faucet/internal/api/httperrors"
	"github/chapool/go-faucet/internal/config"
	"github/chapool/go-faucet/internal/test"
)

const recipient = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func TestPostFund(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		backend := test.Backend(t, s)

		res := test.PerformRequest(t, s, "POST", "/xbzz/"+recipient, nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Empty(t, res.Body.String())

		transfers := backend.Transfers()
		require.Len(t, transfers, 1)
		assert.Equal(t, common.HexToAddress(test.TestWalletAddress), transfers[0].From)
		assert.Equal(t, common.HexToAddress(recipient), transfers[0].To)
		assert.Equal(t, config.DefaultFundingAmount, transfers[0].Amount)
		assert.Equal(t, config.DefaultFundingAmount, backend.TokenBalance(common.HexToAddress(recipient)))
	})
}

func TestPostFundNullBody(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		for _, body := range []string{"null", " null\n", "   "} {
			res := test.PerformRequestWithRawBody(t, s, "POST", "/xbzz/"+recipient, strings.NewReader(body), nil)
			require.Equal(t, http.StatusOK, res.Result().StatusCode, "body %q", body)
		}

		assert.Len(t, test.Backend(t, s).Transfers(), 3)
	})
}

func TestPostFundNonEmptyBody(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		backend := test.Backend(t, s)
		calls := backend.Calls()

		res := test.PerformRequest(t, s, "POST", "/xbzz/"+recipient, test.GenericPayload{"amount": "1000"}, nil)
		test.RequireHTTPError(t, res, httperrors.ErrBadRequestNonEmptyBody)

		for _, body := range []string{"{}", "\"\"", "0", "nullx", "null" + strings.Repeat(" ", 32)} {
			res = test.PerformRequestWithRawBody(t, s, "POST", "/xbzz/"+recipient, strings.NewReader(body), nil)
			test.RequireHTTPError(t, res, httperrors.ErrBadRequestNonEmptyBody)
		}

		assert.Equal(t, calls, backend.Calls())
		assert.Empty(t, backend.Transfers())
	})
}

func TestPostFundInvalidAddress(t *testing.T) {
	var logs bytes.Buffer
	global := log.Logger
	log.Logger = zerolog.New(&logs)
	defer func() { log.Logger = global }()

	test.WithTestServer(t, func(s *api.Server) {
		backend := test.Backend(t, s)
		calls := backend.Calls()

		for _, addr := range []string{"0x123", "hello", "0x5aaeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "0x0000000000000000000000000000000000000000"} {
			logs.Reset()

			res := test.PerformRequest(t, s, "POST", "/xbzz/"+addr, nil, nil)
			test.RequireHTTPError(t, res, httperrors.ErrInternalServerFundingFailed)
			assert.NotContains(t, res.Body.String(), addr)

			assert.Contains(t, logs.String(), `"level":"error"`)
			assert.Contains(t, logs.String(), `"action":"funding-xbzz"`)
			assert.Contains(t, logs.String(), `"address":"`+addr+`"`)
		}

		assert.Equal(t, calls, backend.Calls())
		assert.Empty(t, backend.Transfers())
	})
}

func TestPostFundUnknownToken(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/gno/"+recipient, nil, nil)
		require.Equal(t, http.StatusNotFound, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "GET", "/xbzz/"+recipient, nil, nil)
		require.Equal(t, http.StatusMethodNotAllowed, res.Result().StatusCode)

		assert.Empty(t, test.Backend(t, s).Transfers())
	})
}

func TestPostFundConfiguredSymbol(t *testing.T) {
	cfg := test.NewTestConfig()
	cfg.Faucet.TokenSymbol = "sBZZ"

	test.WithTestServerConfigurable(t, cfg, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/sbzz/"+recipient, nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "POST", "/xbzz/"+recipient, nil, nil)
		require.Equal(t, http.StatusNotFound, res.Result().StatusCode)
	})
}

func TestPostFundConcurrent(t *testing.T) {
	const n = 8

	test.WithTestServer(t, func(s *api.Server) {
		backend := test.Backend(t, s)
		backend.SendDelay = time.Millisecond

		var wg sync.WaitGroup
		codes := make([]int, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				res := test.PerformRequest(t, s, "POST", "/xbzz/"+recipient, nil, nil)
				codes[i] = res.Result().StatusCode
			}(i)
		}
		wg.Wait()

		for _, code := range codes {
			assert.Equal(t, http.StatusOK, code)
		}

		seen := map[uint64]bool{}
		for _, tr := range backend.Transfers() {
			assert.False(t, seen[tr.Nonce], "nonce %d used twice", tr.Nonce)
			seen[tr.Nonce] = true
		}
		assert.Len(t, seen, n)
	})
}

func TestPostFundInsufficientBalance(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		backend := test.Backend(t, s)
		backend.SetTokenBalance(common.HexToAddress(test.TestWalletAddress), config.DefaultFundingAmount)

		res := test.PerformRequest(t, s, "POST", "/xbzz/"+recipient, nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "POST", "/xbzz/"+recipient, nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrInternalServerFundingFailed)
		assert.Len(t, backend.Transfers(), 1)
	})
}

func TestPostFundConfirmationTimeout(t *testing.T) {
	cfg := test.NewTestConfig()
	cfg.Faucet.ConfirmationTimeout = 50 * time.Millisecond

	test.WithTestServerConfigurable(t, cfg, func(s *api.Server) {
		backend := test.Backend(t, s)
		backend.SetAutoMine(false)

		res := test.PerformRequest(t, s, "POST", "/xbzz/"+recipient, nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrInternalServerFundingFailed)
		assert.NotContains(t, res.Body.String(), "0x", "no transaction details in the response")

		require.Len(t, backend.Transfers(), 1)
	})
}

func TestPostFundBroadcastRejected(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		backend := test.Backend(t, s)

		var once sync.Once
		backend.SendHook = func(*types.Transaction) error {
			var err error
			once.Do(func() { err = errors.New("insufficient funds for gas * price + value") })
			return err
		}

		res := test.PerformRequest(t, s, "POST", "/xbzz/"+recipient, nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrInternalServerFundingFailed)

		res = test.PerformRequest(t, s, "POST", "/xbzz/"+recipient, nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		transfers := backend.Transfers()
		require.Len(t, transfers, 1)
		assert.Equal(t, uint64(0), transfers[0].Nonce)
	})
}

func TestPostFundReverted(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		test.Backend(t, s).RevertHook = func(*types.Transaction) bool { return true }

		res := test.PerformRequest(t, s, "POST", "/xbzz/"+recipient, nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrInternalServerFundingFailed)
	})
}
