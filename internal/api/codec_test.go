package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"
)

func TestCodec(t *testing.T) {
	codec := Codec{}
	assert.Equal(t, "json", codec.Name())

	t.Run("plain messages use encoding/json", func(t *testing.T) {
		data, err := codec.Marshal(&DeleteTransactionRequest{ID: "t1"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"t1"}`, string(data))

		var req UpdateTransactionRequest
		require.NoError(t, codec.Unmarshal([]byte(`{"id":"t1","amount":"10.50","propagate_forward":true}`), &req))
		assert.Equal(t, "t1", req.ID)
		require.NotNil(t, req.Amount)
		assert.Equal(t, "10.50", *req.Amount)
		assert.Nil(t, req.Description)
		assert.True(t, req.PropagateForward)
	})

	t.Run("protobuf messages use protojson", func(t *testing.T) {
		data, err := codec.Marshal(&emptypb.Empty{})
		require.NoError(t, err)
		assert.Equal(t, "{}", string(data))

		require.NoError(t, codec.Unmarshal([]byte(`{}`), &emptypb.Empty{}))
	})

	t.Run("empty body", func(t *testing.T) {
		var req ListTransactionsRequest
		require.NoError(t, codec.Unmarshal(nil, &req))
		assert.Zero(t, req)
	})

	t.Run("malformed body", func(t *testing.T) {
		var req ListTransactionsRequest
		assert.Error(t, codec.Unmarshal([]byte(`{"month":"june"}`), &req))
	})
}
