package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type patchBody struct {
	Name    NullableString `json:"name"`
	Beds    NullableInt    `json:"beds"`
	Lot     NullableFloat  `json:"lot"`
	Lockbox NullableBool   `json:"lockbox"`
	Closing NullableDate   `json:"closing"`
}

func Test_Nullable_Omitted(t *testing.T) {
	var body patchBody
	assert.NoError(t, json.Unmarshal([]byte(`{}`), &body))

	assert.False(t, body.Name.Set)
	assert.False(t, body.Beds.Set)
	assert.False(t, body.Lot.Set)
	assert.False(t, body.Lockbox.Set)
	assert.False(t, body.Closing.Set)
}

func Test_Nullable_ExplicitNull(t *testing.T) {
	var body patchBody
	in := `{"name":null,"beds":null,"lot":null,"lockbox":null,"closing":null}`
	assert.NoError(t, json.Unmarshal([]byte(in), &body))

	assert.True(t, body.Name.Set)
	assert.False(t, body.Name.Valid)
	assert.True(t, body.Beds.Set)
	assert.False(t, body.Beds.Valid)
	assert.True(t, body.Closing.Set)
	assert.False(t, body.Closing.Valid)
}

func Test_Nullable_Values(t *testing.T) {
	var body patchBody
	in := `{"name":"Jane","beds":3,"lot":0.25,"lockbox":true,"closing":"2024-07-01"}`
	assert.NoError(t, json.Unmarshal([]byte(in), &body))

	assert.True(t, body.Name.Set)
	assert.True(t, body.Name.Valid)
	assert.Equal(t, "Jane", body.Name.Value)
	assert.Equal(t, int64(3), body.Beds.Value)
	assert.Equal(t, 0.25, body.Lot.Value)
	assert.True(t, body.Lockbox.Value)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), body.Closing.Value)
}

func Test_NullableDate_RejectsBadFormat(t *testing.T) {
	var body patchBody
	assert.Error(t, json.Unmarshal([]byte(`{"closing":"07/01/2024"}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"closing":20240701}`), &body))
}

func Test_NullableInt_RejectsString(t *testing.T) {
	var body patchBody
	assert.Error(t, json.Unmarshal([]byte(`{"beds":"three"}`), &body))
}
