package extractor

// Headers set by the authenticating gateway.
const (
	UserID        = "X-User-Id"
	XForwardedFor = "X-Forwarded-For"
)
