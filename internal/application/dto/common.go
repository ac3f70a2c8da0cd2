package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListResponse envoltorio de listados.
type ListResponse[T any] struct {
	Total int `json:"total"`
	Items []T `json:"items"`
}

// NewList construye la respuesta de listado; nunca serializa items como null.
func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Total: len(items), Items: items}
}

func mapAll[E any, T any](in []E, fn func(E) T) []T {
	out := make([]T, 0, len(in))
	for _, e := range in {
		out = append(out, fn(e))
	}
	return out
}
