package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseIsSuccess(t *testing.T) {
	assert.True(t, (&Response{StatusCode: 200}).IsSuccess())
	assert.True(t, (&Response{StatusCode: 204}).IsSuccess())
	assert.False(t, (&Response{StatusCode: 404}).IsSuccess())
	assert.False(t, (&Response{StatusCode: 503}).IsSuccess())
}

func TestResponseDecodeJSON(t *testing.T) {
	resp := &Response{Body: []byte(`{"id":"42","name":"widget"}`)}

	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, resp.DecodeJSON(&out))
	assert.Equal(t, "42", out.ID)
	assert.Equal(t, "widget", out.Name)
}

func TestResponseDecodeJSONMalformed(t *testing.T) {
	resp := &Response{Body: []byte("not json")}

	var out map[string]any
	assert.Error(t, resp.DecodeJSON(&out))
}
