package service

import "pmhscreen/internal/model"

// Broadcaster pushes analytics updates to live dashboards (implemented by the ws hub)
type Broadcaster interface {
	BroadcastAnalytics(snapshot model.AnalyticsSnapshot)
}
