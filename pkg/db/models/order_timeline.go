package models

import "time"

// TimelineStep is one entry in an order's delivery progression.
type TimelineStep struct {
	Step        string     `json:"step"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// OrderTimeline is the ordered delivery progression stored with each order.
type OrderTimeline []TimelineStep
