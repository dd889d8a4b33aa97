package fields

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeMarshal(t *testing.T) {
	data, err := json.Marshal(struct {
		Duration Runtime `json:"duration"`
	}{Duration: 142})
	require.NoError(t, err)
	assert.JSONEq(t, `{"duration":"142 mins"}`, string(data))

	data, err = json.Marshal(Runtime(0))
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestContentTypeValid(t *testing.T) {
	assert.True(t, Movie.Valid())
	assert.True(t, Series.Valid())
	assert.False(t, ContentType("podcast").Valid())
}
