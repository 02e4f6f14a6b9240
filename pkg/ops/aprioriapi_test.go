package ops

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zainarain279/monad5/pkg/logger"
)

func TestClaimableRequest(t *testing.T) {
	address := common.HexToAddress("0x2222222222222222222222222222222222222222")

	t.Run("claimable request found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, address.Hex(), r.URL.Query().Get("address"))
			_, _ = w.Write([]byte(`[
				{"id": 7, "claimed": true, "is_claimable": true},
				{"id": 8, "claimed": false, "is_claimable": false},
				{"id": 9, "claimed": false, "is_claimable": true}
			]`))
		}))
		defer server.Close()

		client := NewWithdrawalStatusClient(server.URL, &logger.EmptyLogger{})
		id, ok, err := client.ClaimableRequest(context.Background(), address)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "9", id.String())
	})

	t.Run("nothing claimable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := NewWithdrawalStatusClient(server.URL, &logger.EmptyLogger{})
		id, ok, err := client.ClaimableRequest(context.Background(), address)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, id)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewWithdrawalStatusClient(server.URL, &logger.EmptyLogger{})
		_, _, err := client.ClaimableRequest(context.Background(), address)
		assert.Error(t, err)
	})
}
