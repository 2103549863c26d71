package constants

// Response Messages
const (
	ResponseUpstreamStatus = "Traccar responded %d"
	ResponseInternalError  = "internal server error"
	ResponseHealthy        = `{"status":"healthy"}`
)

// Error Messages for Logging
const (
	LogWriteFailed = "w.Write failed: %v"
)
