package constants

// HTTP Methods
const (
	HTTPMethodGET     = "GET"
	HTTPMethodOPTIONS = "OPTIONS"
)

// Content Types
const (
	ContentTypeJSON = "application/json"
)

// HTTP Headers
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderAccept        = "Accept"
)

// CORS
const (
	CORSAllowOrigin  = "*"
	CORSAllowMethods = "GET, OPTIONS"
	CORSAllowHeaders = "Content-Type, Authorization"
)

// Routes
const (
	RoutePositions = "/positions"
	RouteHealthz   = "/healthz"
	RouteMetrics   = "/metrics"
)

// BasicAuthPrefix precedes the base64 credential pair in the Authorization header.
const BasicAuthPrefix = "Basic "
