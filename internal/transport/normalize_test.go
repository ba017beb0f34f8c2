package transport_test

import (
	"encoding/json"
	"testing"

	"github.com/saulo-duarte/mockprep/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

func TestDecodeList(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []item
	}{
		{"bare array", `[{"_id":"a","title":"A"}]`, []item{{ID: "a", Title: "A"}}},
		{"wrapped", `{"mocktests":[{"_id":"a","title":"A"},{"_id":"b"}]}`, []item{{ID: "a", Title: "A"}, {ID: "b"}}},
		{"missing key", `{"success":true}`, []item{}},
		{"null", `null`, []item{}},
		{"empty body", ``, []item{}},
		{"wrapped null", `{"mocktests":null}`, []item{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := transport.DecodeList[item](json.RawMessage(tc.raw), "mocktests")
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("scalar payload", func(t *testing.T) {
		_, err := transport.DecodeList[item](json.RawMessage(`"oops"`), "mocktests")
		assert.Error(t, err)
	})
}

func TestDecodeOne(t *testing.T) {
	t.Run("wrapped", func(t *testing.T) {
		got, err := transport.DecodeOne[item](json.RawMessage(`{"attempt":{"_id":"x","title":"T"}}`), "attempt")
		require.NoError(t, err)
		assert.Equal(t, item{ID: "x", Title: "T"}, got)
	})

	t.Run("bare object", func(t *testing.T) {
		got, err := transport.DecodeOne[item](json.RawMessage(`{"_id":"x"}`), "attempt")
		require.NoError(t, err)
		assert.Equal(t, "x", got.ID)
	})

	t.Run("array rejected", func(t *testing.T) {
		_, err := transport.DecodeOne[item](json.RawMessage(`[]`), "attempt")
		assert.Error(t, err)
	})
}
