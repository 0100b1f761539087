package feed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseXML(t *testing.T) {
	data := `<?xml version="1.0" encoding="UTF-8"?>
<Vehicles>
  <Vehicle>
    <VINNumber>VIN123</VINNumber>
    <StockNo>STK1</StockNo>
    <Make>Toyota</Make>
    <Images><Image>http://img/1.jpg</Image><Image>http://img/2.jpg</Image></Images>
  </Vehicle>
  <Dealer>ignored</Dealer>
  <Vehicle>
    <VINNumber>VIN456</VINNumber>
  </Vehicle>
</Vehicles>`

	it, err := Parse([]byte(data), FormatXML)
	require.NoError(t, err)

	records, err := Collect(it)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"VINNumber", "StockNo", "Make", "Images"}, records[0].Keys())
	v, _ := records[0].Get("Images")
	assert.Equal(t, "http://img/1.jpg,http://img/2.jpg", v)
	v, _ = records[1].Get("VINNumber")
	assert.Equal(t, "VIN456", v)
}

func TestParseXML_ContainerNames(t *testing.T) {
	for _, name := range []string{"vehicle", "Vehicle", "item"} {
		t.Run(name, func(t *testing.T) {
			data := "<feed><" + name + "><vin>A</vin></" + name + "></feed>"
			it, err := Parse([]byte(data), FormatXML)
			require.NoError(t, err)
			records, err := Collect(it)
			require.NoError(t, err)
			require.Len(t, records, 1)
			v, _ := records[0].Get("vin")
			assert.Equal(t, "A", v)
		})
	}
}

func TestParseXML_FirstContainerNameWins(t *testing.T) {
	data := "<feed><item><vin>A</vin></item><vehicle><vin>B</vin></vehicle><item><vin>C</vin></item></feed>"

	it, err := Parse([]byte(data), FormatXML)
	require.NoError(t, err)
	records, err := Collect(it)
	require.NoError(t, err)
	require.Len(t, records, 2)

	v, _ := records[1].Get("vin")
	assert.Equal(t, "C", v)
}

func TestParseXML_Failures(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Not XML", "this is not xml"},
		{"Unclosed", "<feed><vehicle><vin>A</vin>"},
		{"No Containers", "<feed><car><vin>A</vin></car></feed>"},
		{"Nested Too Deep", "<root><feed><vehicle><vin>A</vin></vehicle></feed></root>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := Parse([]byte(tt.data), FormatXML)
			require.NoError(t, err)

			_, err = Collect(it)
			var fe *FormatError
			assert.True(t, errors.As(err, &fe), "expected FormatError, got %v", err)
		})
	}
}

func TestParseXML_RecordsBeforeErrorAreYielded(t *testing.T) {
	it, err := Parse([]byte("<feed><vehicle><vin>A</vin></vehicle><vehicle><vin>"), FormatXML)
	require.NoError(t, err)

	assert.True(t, it.Next())
	v, _ := it.Record().Get("vin")
	assert.Equal(t, "A", v)
	assert.False(t, it.Next())
	assert.Error(t, it.Err())
}
