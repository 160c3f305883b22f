package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Validations
	mux.Handle("GET /api/v1/validations", chain(http.HandlerFunc(h.ListValidations)))
	mux.Handle("POST /api/v1/validations", chain(http.HandlerFunc(h.CreateValidation)))
	mux.Handle("GET /api/v1/validations/{id}", chain(http.HandlerFunc(h.GetValidation)))
	mux.Handle("DELETE /api/v1/validations/{id}", chain(http.HandlerFunc(h.DeleteValidation)))
	mux.Handle("GET /api/v1/validations/{id}/findings", chain(http.HandlerFunc(h.GetValidationFindings)))
	mux.Handle("GET /api/v1/validations/{id}/graph", chain(http.HandlerFunc(h.GetValidationGraph)))

	// Export formats
	mux.Handle("GET /api/v1/formats", chain(http.HandlerFunc(h.ListFormats)))
}
