package trade

import (
	"encoding/json"
	"testing"

	"github.com/erp/billing/internal/domain/shared/valueobject"
	"github.com/erp/billing/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItemResponse_WireFormat(t *testing.T) {
	line, err := trade.NewLineItem(uuid.New(), 1, valueobject.MustMoney(999), valueobject.MustTaxRate("12.5"), "")
	require.NoError(t, err)

	data, err := json.Marshal(ToLineItemResponses([]trade.LineItem{line})[0])
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(999), raw["unit_price"])
	assert.Equal(t, 12.5, raw["tax_rate"])
	assert.Equal(t, float64(125), raw["tax_amount"])
	assert.Equal(t, float64(1124), raw["line_total"])

	var back LineItemResponse
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, line.LineTotal, back.LineTotal)
	assert.Equal(t, line.TaxRate, back.TaxRate)
}

func TestLineItemResponse_RejectsNegativeAmount(t *testing.T) {
	var resp LineItemResponse
	err := json.Unmarshal([]byte(`{"unit_price": -1}`), &resp)
	assert.Error(t, err)
}
