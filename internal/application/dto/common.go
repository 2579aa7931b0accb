package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AffectedResponse filas afectadas por una operación de mantenimiento (0 = ya estaba aplicada).
type AffectedResponse struct {
	Affected int64 `json:"filas_afectadas"`
}
