package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuotesPricedTotal counts pricing pipeline runs by outcome.
	QuotesPricedTotal *prometheus.CounterVec
	// PromotionsAppliedTotal counts promotions included in priced quotes by action type.
	PromotionsAppliedTotal *prometheus.CounterVec
	// PromotionCodesRejectedTotal counts code rejections by reason.
	PromotionCodesRejectedTotal *prometheus.CounterVec
	// RedemptionCommitsTotal counts redemption ledger commits by result.
	RedemptionCommitsTotal *prometheus.CounterVec
	// QuoteTransitionsTotal counts lifecycle transitions by target status and result.
	QuoteTransitionsTotal *prometheus.CounterVec
	// QuotesConvertedTotal counts quote-to-order conversions by result.
	QuotesConvertedTotal *prometheus.CounterVec
	// QuotesExpiredTotal counts quotes expired by the sweep job.
	QuotesExpiredTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuotesPricedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_priced_total",
			Help:      "Count of quote pricing runs by outcome.",
		}, []string{"result"})
		PromotionsAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotions_applied_total",
			Help:      "Count of promotions applied to priced quotes by action type.",
		}, []string{"action_type"})
		PromotionCodesRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotion_codes_rejected_total",
			Help:      "Count of promotion code rejections by reason.",
		}, []string{"reason"})
		RedemptionCommitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redemption_commits_total",
			Help:      "Count of redemption ledger commits by result.",
		}, []string{"result"})
		QuoteTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_transitions_total",
			Help:      "Count of quote lifecycle transitions by target status and result.",
		}, []string{"to_status", "result"})
		QuotesConvertedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_converted_total",
			Help:      "Count of quote-to-order conversions by result.",
		}, []string{"result"})
		QuotesExpiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_expired_total",
			Help:      "Count of quotes expired by the scheduled sweep.",
		})
		reg.MustRegister(
			QuotesPricedTotal,
			PromotionsAppliedTotal,
			PromotionCodesRejectedTotal,
			RedemptionCommitsTotal,
			QuoteTransitionsTotal,
			QuotesConvertedTotal,
			QuotesExpiredTotal,
		)
	})
}
