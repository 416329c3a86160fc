package app

import (
	"math"
	"time"

	"plaza_booking/internal/domain"
)

const (
	serviceFeeRate  = 0.10
	pixDiscountRate = 0.05
)

// Quote is the display-side price breakdown. Only BaseAmount is ever
// persisted on a reservation; fee and discount exist for the checkout UI.
type Quote struct {
	Nights        int
	RatePerNight  float64
	BaseAmount    float64
	ServiceFee    float64
	Discount      float64
	Total         float64
	PaymentMethod string
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// PriceQuote computes nights x rate plus the 10% service fee, minus the 5%
// discount for pix payments. The server owns this math; client-submitted
// totals are only ever compared against it.
func PriceQuote(ratePerNight float64, checkIn, checkOut time.Time, paymentMethod string) Quote {
	nights := int(domain.DateOnly(checkOut).Sub(domain.DateOnly(checkIn)).Hours() / 24)
	if nights < 0 {
		nights = 0
	}
	base := round2(float64(nights) * ratePerNight)
	fee := round2(base * serviceFeeRate)
	var discount float64
	if paymentMethod == "pix" {
		discount = round2((base + fee) * pixDiscountRate)
	}
	return Quote{
		Nights:        nights,
		RatePerNight:  ratePerNight,
		BaseAmount:    base,
		ServiceFee:    fee,
		Discount:      discount,
		Total:         round2(base + fee - discount),
		PaymentMethod: paymentMethod,
	}
}
