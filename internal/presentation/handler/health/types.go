package health

// healthResponse represents the health status of the bot
type healthResponse struct {
	Status        string `json:"status" example:"ok" enum:"ok,unhealthy"`  // ok once the socket is authenticated
	Timestamp     string `json:"timestamp" example:"2024-01-01T12:00:00Z"` // Current server timestamp in RFC3339 format
	Uptime        string `json:"uptime" example:"2h30m45s"`                // Process uptime
	Room          string `json:"room,omitempty" example:"chill-out"`
	LastHeartbeat string `json:"lastHeartbeat,omitempty" example:"2024-01-01T12:00:00Z"`
}
