package apierror

// Error type URIs following the urn:crosscoach:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:crosscoach:error:validation"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:crosscoach:error:not_found"

	// TypeNoData indicates a user has no log points to analyze (404)
	TypeNoData = "urn:crosscoach:error:no_data"

	// TypeRateLimit indicates too many requests (429)
	TypeRateLimit = "urn:crosscoach:error:rate_limit"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:crosscoach:error:internal"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:crosscoach:error:bad_request"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation = "Validation Error"
	TitleNotFound   = "Resource Not Found"
	TitleNoData     = "No Log Points"
	TitleRateLimit  = "Rate Limit Exceeded"
	TitleInternal   = "Internal Server Error"
	TitleBadRequest = "Bad Request"
)
