package metrics

import "github.com/prometheus/client_golang/prometheus"

// CartMetrics counts pricing and checkout activity.
type CartMetrics struct {
	quotes    prometheus.Counter
	coupons   *prometheus.CounterVec
	checkouts *prometheus.CounterVec
}

// NewCartMetrics registers cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	quotes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_quotes_total",
		Help: "Cart pricing quotes computed.",
	})
	coupons := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_coupon_applications_total",
		Help: "Coupon application attempts by outcome.",
	}, []string{"outcome"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(quotes, coupons, checkouts)
	return &CartMetrics{
		quotes:    quotes,
		coupons:   coupons,
		checkouts: checkouts,
	}
}

// IncQuote counts one computed quote.
func (c *CartMetrics) IncQuote() {
	if c == nil || c.quotes == nil {
		return
	}
	c.quotes.Inc()
}

// IncCoupon counts one coupon application attempt.
func (c *CartMetrics) IncCoupon(outcome string) {
	if c == nil || c.coupons == nil {
		return
	}
	c.coupons.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncCheckout counts one checkout attempt.
func (c *CartMetrics) IncCheckout(outcome string) {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}
