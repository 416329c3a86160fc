package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"plaza_booking/internal/app"
)

func TestPriceQuote(t *testing.T) {
	in, out := futureDay(10), futureDay(12)

	q := app.PriceQuote(100, in, out, "card")
	assert.Equal(t, 2, q.Nights)
	assert.Equal(t, 200.0, q.BaseAmount)
	assert.Equal(t, 20.0, q.ServiceFee)
	assert.Equal(t, 0.0, q.Discount)
	assert.Equal(t, 220.0, q.Total)

	// pix takes 5% off base plus fee
	q = app.PriceQuote(100, in, out, "pix")
	assert.Equal(t, 11.0, q.Discount)
	assert.Equal(t, 209.0, q.Total)
}

func TestPriceQuote_Rounding(t *testing.T) {
	q := app.PriceQuote(99.99, futureDay(10), futureDay(13), "pix")
	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, 299.97, q.BaseAmount)
	assert.Equal(t, 30.0, q.ServiceFee)    // 29.997 rounds up
	assert.Equal(t, 16.5, q.Discount)      // 5% of 329.97, rounded
	assert.Equal(t, 313.47, q.Total)
}

func TestPriceQuote_DegenerateRange(t *testing.T) {
	q := app.PriceQuote(100, futureDay(12), futureDay(12), "")
	assert.Equal(t, 0, q.Nights)
	assert.Equal(t, 0.0, q.Total)

	q = app.PriceQuote(100, futureDay(12), futureDay(10), "")
	assert.Equal(t, 0, q.Nights)
}
