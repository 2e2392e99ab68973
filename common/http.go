package common

// HttpResponse is the body of every API response. Exactly one of Error or Result is set.
type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

func NewHttpErrorResponse(message string) HttpResponse[any] {
	return HttpResponse[any]{Error: &message}
}
