package ops

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zainarain279/monad5/pkg/logger"
)

func TestPathfinderQuote(t *testing.T) {
	sender := common.HexToAddress("0x1111111111111111111111111111111111111111")

	t.Run("valid quote", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "0.5", r.URL.Query().Get("amount"))
			assert.Equal(t, "100", r.URL.Query().Get("slippage"))
			assert.Equal(t, sender.Hex(), r.URL.Query().Get("sender"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"quote":{"transaction":{
				"to":"0xC995498c22a012353FAE7eCC701810D673E25794",
				"data":"0xdeadbeef",
				"value":"0x6f05b59d3b20000"
			}}}`))
		}))
		defer server.Close()

		client := NewPathfinderClient(server.URL, &logger.EmptyLogger{})
		plan, err := client.Quote(context.Background(), "0.5",
			"0x0000000000000000000000000000000000000000",
			"0xf817257fed379853cDe0fa4F97AB987181B1E5Ea",
			sender,
		)
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0xC995498c22a012353FAE7eCC701810D673E25794"), plan.To)
		assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, []byte(plan.Data))
		assert.Equal(t, "500000000000000000", plan.Value.ToInt().String())
	})

	t.Run("missing transaction", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"quote":{}}`))
		}))
		defer server.Close()

		client := NewPathfinderClient(server.URL, &logger.EmptyLogger{})
		_, err := client.Quote(context.Background(), "1", "a", "b", sender)
		assert.Error(t, err)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewPathfinderClient(server.URL, &logger.EmptyLogger{})
		_, err := client.Quote(context.Background(), "1", "a", "b", sender)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})
}

func TestFormatUnits(t *testing.T) {
	cases := []struct {
		name     string
		amount   string
		decimals uint8
		want     string
	}{
		{"whole", "1000000000000000000", 18, "1"},
		{"fraction", "500000000000000000", 18, "0.5"},
		{"mixed", "1500000000000000000", 18, "1.5"},
		{"six decimals", "1230000", 6, "1.23"},
		{"dust", "1", 18, "0.000000000000000001"},
		{"zero", "0", 18, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, ok := new(big.Int).SetString(tc.amount, 10)
			require.True(t, ok)
			assert.Equal(t, tc.want, FormatUnits(amount, tc.decimals))
		})
	}
}
