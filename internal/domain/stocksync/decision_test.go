package stocksync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		netStock   int64
		previous   StockStatus
		wantAction SyncAction
		wantTarget StockStatus
	}{
		{
			name:       "positive stock and outofstock marks instock",
			netStock:   5,
			previous:   StockStatusOutofstock,
			wantAction: ActionMarkInstock,
			wantTarget: StockStatusInstock,
		},
		{
			name:       "positive stock and instock is a noop",
			netStock:   5,
			previous:   StockStatusInstock,
			wantAction: ActionNoop,
			wantTarget: StockStatusInstock,
		},
		{
			name:       "zero stock and instock marks outofstock",
			netStock:   0,
			previous:   StockStatusInstock,
			wantAction: ActionMarkOutofstock,
			wantTarget: StockStatusOutofstock,
		},
		{
			name:       "negative stock decides outofstock",
			netStock:   -3,
			previous:   StockStatusInstock,
			wantAction: ActionMarkOutofstock,
			wantTarget: StockStatusOutofstock,
		},
		{
			name:       "zero stock and outofstock is a noop",
			netStock:   0,
			previous:   StockStatusOutofstock,
			wantAction: ActionNoop,
			wantTarget: StockStatusOutofstock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.netStock, tt.previous)
			assert.Equal(t, tt.wantAction, d.Action)
			assert.Equal(t, tt.wantTarget, d.TargetStatus)
		})
	}
}

func TestDecide_Idempotent(t *testing.T) {
	first := Decide(7, StockStatusOutofstock)
	second := Decide(7, StockStatusOutofstock)
	assert.Equal(t, first, second)
}

func TestTargetStatusFor(t *testing.T) {
	assert.Equal(t, StockStatusInstock, TargetStatusFor(1))
	assert.Equal(t, StockStatusOutofstock, TargetStatusFor(0))
	assert.Equal(t, StockStatusOutofstock, TargetStatusFor(-1))
}

func TestActionFor(t *testing.T) {
	assert.Equal(t, ActionMarkInstock, ActionFor(StockStatusInstock))
	assert.Equal(t, ActionMarkOutofstock, ActionFor(StockStatusOutofstock))
}
