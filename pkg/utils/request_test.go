package utils

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberAcceptsNumbersAndStrings(t *testing.T) {
	var payload struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
		D Number `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 37.5, "b": " 127.0 ", "c": null}`), &payload))

	assert.Equal(t, Number{Value: 37.5, Set: true}, payload.A)
	assert.Equal(t, Number{Value: 127, Set: true}, payload.B)
	assert.False(t, payload.C.Set)
	assert.Equal(t, 1.5, payload.D.Or(1.5))
}

func TestNumberRejectsNonNumeric(t *testing.T) {
	for _, body := range []string{`{"a":"abc"}`, `{"a":""}`, `{"a":"NaN"}`, `{"a":true}`} {
		var payload struct {
			A Number `json:"a"`
		}
		assert.Error(t, json.Unmarshal([]byte(body), &payload), body)
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Message string `json:"message"`
	}

	require.NoError(t, DecodeJSON(httptest.NewRequest("POST", "/", strings.NewReader("")), &v))
	require.NoError(t, DecodeJSON(httptest.NewRequest("POST", "/", strings.NewReader(`{"message":"hi"}`)), &v))
	assert.Equal(t, "hi", v.Message)

	err := DecodeJSON(httptest.NewRequest("POST", "/", strings.NewReader(`{"message":`)), &v)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestValidateStruct(t *testing.T) {
	type coords struct {
		Latitude float64 `json:"latitude" validate:"gte=-90,lte=90"`
		Message  string  `json:"message" validate:"required"`
	}

	assert.NoError(t, ValidateStruct(coords{Latitude: 10, Message: "x"}))

	err := ValidateStruct(coords{Latitude: 91, Message: "x"})
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Contains(t, err.Error(), "latitude")

	err = ValidateStruct(coords{Latitude: 0})
	assert.Contains(t, err.Error(), "message is required")
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, 400, "bad")

	assert.Equal(t, 400, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"error":"bad"}`, rec.Body.String())
}
