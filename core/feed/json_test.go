package feed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Shapes(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Root Array", `[{"VIN":"A"},{"VIN":"B"}]`},
		{"Vehicles Key", `{"dealer":{"name":"x"},"vehicles":[{"VIN":"A"},{"VIN":"B"}]}`},
		{"Capitalized Key", `{"Vehicles":[{"VIN":"A"},{"VIN":"B"}],"count":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := Parse([]byte(tt.data), FormatJSON)
			require.NoError(t, err)
			records, err := Collect(it)
			require.NoError(t, err)
			require.Len(t, records, 2)
			v, _ := records[1].Get("VIN")
			assert.Equal(t, "B", v)
		})
	}
}

func TestParseJSON_RejectsUnknownShape(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Scalar Root", `"vehicles"`},
		{"Object Without Key", `{"cars":[{"VIN":"A"}]}`},
		{"Vehicles Not Array", `{"vehicles":{"VIN":"A"}}`},
		{"Invalid Syntax", `{vehicles:`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := Parse([]byte(tt.data), FormatJSON)
			assert.Nil(t, it)
			var fe *FormatError
			assert.True(t, errors.As(err, &fe), "expected FormatError, got %v", err)
		})
	}
}

func TestParseJSON_ValueFlattening(t *testing.T) {
	data := `[{"VIN":"A","Year":2020,"Retail":25999.5,"Sold":false,"Badge":null,
	"Images":["http://img/1.jpg","http://img/2.jpg"],"Extra":{"k":"v"}}]`

	it, err := Parse([]byte(data), FormatJSON)
	require.NoError(t, err)
	records, err := Collect(it)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, []string{"VIN", "Year", "Retail", "Sold", "Badge", "Images", "Extra"}, rec.Keys())

	expected := map[string]string{
		"Year":   "2020",
		"Retail": "25999.5",
		"Sold":   "false",
		"Badge":  "",
		"Images": "http://img/1.jpg,http://img/2.jpg",
		"Extra":  `{"k":"v"}`,
	}
	for k, want := range expected {
		got, ok := rec.Get(k)
		assert.True(t, ok, k)
		assert.Equal(t, want, got, k)
	}
}

func TestParseJSON_SkipsNonObjects(t *testing.T) {
	it, err := Parse([]byte(`[1,"x",{"VIN":"A"},[2],null]`), FormatJSON)
	require.NoError(t, err)
	records, err := Collect(it)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestParseJSON_TruncatedAfterStart(t *testing.T) {
	it, err := Parse([]byte(`[{"VIN":"A"},{"VIN":`), FormatJSON)
	require.NoError(t, err)

	assert.True(t, it.Next())
	assert.False(t, it.Next())
	var fe *FormatError
	assert.True(t, errors.As(it.Err(), &fe))
}
