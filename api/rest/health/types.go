package health

type Response struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`

	// UTC calendar day the server counts quota against
	QuotaDay string `json:"quota_day"`
}

type PingResponse struct {
	Message string `json:"message"`
}
