package usage

import (
	"codeberg.org/pixelmind/server/internal/quota"
	"codeberg.org/pixelmind/server/internal/usagelog"
)

type UsageResponse struct {
	Date  string       `json:"date"`
	Image quota.Status `json:"image"`
	Video quota.Status `json:"video"`
}

type HistoryResponse struct {
	Days    int                   `json:"days"`
	History []usagelog.DailyUsage `json:"history"`
}
