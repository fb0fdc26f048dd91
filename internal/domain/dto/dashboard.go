package dto

import (
	"time"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/service/aggregate"
)

type DashboardResponse struct {
	View        string    `json:"view"`
	GeneratedAt time.Time `json:"generated_at"`
	aggregate.Dashboard
}

type TickEvent struct {
	ServerTime time.Time `json:"server_time"`
}
