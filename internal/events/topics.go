package events

// Topic constants for domain events emitted by the back office.
const (
	TopicQuoteStatusChanged = "quote.status_changed"
	TopicQuoteExpired       = "quote.expired"
	TopicQuoteConverted     = "quote.converted"
	TopicOrderCreated       = "order.created"
	TopicPromotionRedeemed  = "promotion.redeemed"
)
