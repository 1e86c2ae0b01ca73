package res

// CommonResponse wraps the payload of a successful REST request. Data is left
// out for commands that return nothing.
type CommonResponse[T any] struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Data       T      `json:"data,omitempty"`
}
