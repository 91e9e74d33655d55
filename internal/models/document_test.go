package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextOrderIDIsSequential(t *testing.T) {
	doc := NewDocument()

	assert.Equal(t, "SL00001", doc.NextOrderID())
	assert.Equal(t, "SL00002", doc.NextOrderID())
	assert.Equal(t, "SL00003", doc.NextOrderID())
	assert.EqualValues(t, 3, doc.LastOrderSequence)
}

func TestNextOrderIDGrowsPastFiveDigits(t *testing.T) {
	doc := NewDocument()
	doc.LastOrderSequence = 99999

	assert.Equal(t, "SL100000", doc.NextOrderID())
}

func TestNewDocumentEncodesEmptyCollections(t *testing.T) {
	body, err := json.Marshal(NewDocument())
	require.NoError(t, err)

	assert.JSONEq(t, `{"orders":[],"customers":[],"team":[],"discounts":[],"last_order_sequence":0}`, string(body))
}

func TestDiscountLookupsAreSeparate(t *testing.T) {
	doc := NewDocument()
	doc.Discounts = []Discount{
		{ID: "promo", Code: "SAVE10"},
		{ID: "SAVE10", Code: "OTHER"},
	}

	assert.Equal(t, 1, doc.DiscountIndexByID("SAVE10"))
	assert.Equal(t, 0, doc.DiscountIndexByCode("SAVE10"))
	assert.Equal(t, -1, doc.DiscountIndexByCode("missing"))
}

func TestCustomerRemoveOrder(t *testing.T) {
	c := Customer{Orders: []string{"SL00001", "SL00002", "SL00001"}}

	assert.True(t, c.RemoveOrder("SL00001"))
	assert.Equal(t, []string{"SL00002"}, c.Orders)
	assert.False(t, c.RemoveOrder("SL00009"))
}
