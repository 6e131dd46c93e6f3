package models

// NotificationPreferences are per-topic opt-ins. Every topic is on by default.
type NotificationPreferences struct {
	MarketPrice   bool `json:"market_price"`
	ExpertArticle bool `json:"expert_article"`
	DailyNews     bool `json:"daily_news"`
	GovtScheme    bool `json:"govt_scheme"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		MarketPrice:   true,
		ExpertArticle: true,
		DailyNews:     true,
		GovtScheme:    true,
	}
}

// PushSubscription is the browser's Web Push subscription object.
type PushSubscription struct {
	Endpoint       string               `json:"endpoint"`
	ExpirationTime *int64               `json:"expirationTime,omitempty"`
	Keys           PushSubscriptionKeys `json:"keys"`
}

type PushSubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}
