package statuses

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"shelter-status/internal/middleware"
)

// RegisterAdminRoutes monta los resets administrativos del ledger.
// Son bulk-deletes intencionales (escape hatch), no mutaciones de filas.
func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Delete("/admin/statuses", resetAllHandler(svc))
	r.Delete("/admin/subjects/{subjectID}/statuses", resetSubjectHandler(svc))
}

type resetResponse struct {
	Removed int64 `json:"removed"`
}

// resetAllHandler godoc
// @Summary Resetear todo el ledger
// @Description Borra toda la historia de estados de todos los subjects. Solo admin. Devuelve la cantidad de filas eliminadas.
// @Tags admin
// @Produce json
// @Success 200 {object} resetResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 500 {string} string "storage error"
// @Router /admin/statuses [delete]
func resetAllHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		n, err := svc.ResetAll(r.Context())
		if err != nil {
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, resetResponse{Removed: n})
	}
}

// resetSubjectHandler godoc
// @Summary Resetear la historia de un subject
// @Description Borra la historia de estados de un subject. Se keyea puramente por id: no exige que el subject exista hoy ni que tenga rol "user". Solo admin.
// @Tags admin
// @Produce json
// @Param subjectID path string true "ID del subject"
// @Success 200 {object} resetResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 500 {string} string "storage error"
// @Router /admin/subjects/{subjectID}/statuses [delete]
func resetSubjectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		n, err := svc.ResetSubject(r.Context(), chi.URLParam(r, "subjectID"))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, resetResponse{Removed: n})
	}
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	if claims.Role != "admin" {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}
