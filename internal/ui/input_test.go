package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthd/hearth/internal/botapi"
)

func TestParseStockInput(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    botapi.StockItem
		wantErr bool
	}{
		{
			name: "full form with plus",
			raw:  "milk / 2 gallons / +",
			want: botapi.StockItem{Item: "milk", Quantity: "2 gallons", StockLevel: botapi.StockSufficient},
		},
		{
			name: "zero level",
			raw:  "eggs / 0 / 0",
			want: botapi.StockItem{Item: "eggs", Quantity: "0", StockLevel: botapi.StockOut},
		},
		{
			name: "minus level",
			raw:  "butter / 1 stick / -",
			want: botapi.StockItem{Item: "butter", Quantity: "1 stick", StockLevel: botapi.StockLow},
		},
		{
			name: "spelled out level",
			raw:  "flour / 5 lbs / low",
			want: botapi.StockItem{Item: "flour", Quantity: "5 lbs", StockLevel: botapi.StockLow},
		},
		{
			name: "item only defaults to sufficient",
			raw:  "rice",
			want: botapi.StockItem{Item: "rice", StockLevel: botapi.StockSufficient},
		},
		{
			name: "item and quantity",
			raw:  "salt / 1 box",
			want: botapi.StockItem{Item: "salt", Quantity: "1 box", StockLevel: botapi.StockSufficient},
		},
		{name: "empty", raw: "", wantErr: true},
		{name: "blank item", raw: " / 2 / +", wantErr: true},
		{name: "bad level", raw: "milk / 2 / plenty", wantErr: true},
		{name: "too many fields", raw: "a / b / + / extra", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStockInput(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFreezerInput(t *testing.T) {
	got, err := parseFreezerInput("ABC / beef stew")
	require.NoError(t, err)
	assert.Equal(t, botapi.FreezerItem{Code: "ABC", Description: "beef stew"}, got)

	_, err = parseFreezerInput("ABC")
	assert.Error(t, err)

	_, err = parseFreezerInput(" / beef stew")
	assert.Error(t, err)
}

func TestParseMemoryInput(t *testing.T) {
	got, err := parseMemoryInput("passport / desk drawer")
	require.NoError(t, err)
	assert.Equal(t, botapi.Memory{Item: "passport", Location: "desk drawer"}, got)

	_, err = parseMemoryInput("passport")
	assert.Error(t, err)
}

func TestParseTodoInput(t *testing.T) {
	got, err := parseTodoInput("  water the plants  ")
	require.NoError(t, err)
	assert.Equal(t, "water the plants", got.Content)

	_, err = parseTodoInput("   ")
	assert.Error(t, err)
}
