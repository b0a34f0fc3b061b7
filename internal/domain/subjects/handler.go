package subjects

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"shelter-status/internal/middleware"
	"shelter-status/internal/ports/auth"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me", meHandler(svc))

	r.Post("/team/members/bulk", bulkProvisionHandler(svc))

	r.Get("/admin/subjects", listSubjectsHandler(svc))
	r.Post("/admin/subjects", createSubjectHandler(svc))
	r.Post("/admin/subjects/assign", bulkAssignHandler(svc))
	r.Post("/admin/subjects/{subjectID}/team", assignTeamLeadHandler(svc))
}

type subjectResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	Role       Role      `json:"role"`
	TeamLeadID *string   `json:"team_lead_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// meHandler godoc
// @Summary Identidad del actor
// @Description Devuelve los claims resueltos por el Identity Directory más el perfil del directorio local si existe.
// @Tags subjects
// @Produce json
// @Success 200 {object} meResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me [get]
func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		resp := meResponse{
			ID:   claims.UserID,
			Role: claims.Role,
		}
		if claims.TeamLeadID != "" {
			resp.TeamLeadID = &claims.TeamLeadID
		}

		// El perfil puede no existir todavía en el directorio; no es error.
		if sub, err := svc.GetByID(r.Context(), claims.UserID); err == nil {
			resp.Name = sub.Name
			resp.Location = sub.Location
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type meResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Location   string  `json:"location"`
	Role       string  `json:"role"`
	TeamLeadID *string `json:"team_lead_id"`
}

type createSubjectRequest struct {
	Name       string `json:"name"`
	Location   string `json:"location"`
	Role       string `json:"role" enums:"user,team_lead"`
	TeamLeadID string `json:"team_lead_id"`
}

// createSubjectHandler godoc
// @Summary Crear subject (admin)
// @Description Aprovisiona un subject individual. Las credenciales las maneja el Identity Directory aparte; acá solo entra el perfil rastreable.
// @Tags admin
// @Accept json
// @Produce json
// @Param payload body createSubjectRequest true "Datos del subject"
// @Success 201 {object} subjectResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /admin/subjects [post]
func createSubjectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireRole(w, r, RoleAdmin) {
			return
		}

		var req createSubjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sub, err := svc.Create(r.Context(), CreateInput{
			Name:       req.Name,
			Location:   req.Location,
			Role:       req.Role,
			TeamLeadID: req.TeamLeadID,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSubjectResponse(sub))
	}
}

// listSubjectsHandler godoc
// @Summary Listar subjects rastreables (admin)
// @Description Lista el directorio completo de personal rastreable (sin admins).
// @Tags admin
// @Produce json
// @Success 200 {array} subjectResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /admin/subjects [get]
func listSubjectsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireRole(w, r, RoleAdmin) {
			return
		}

		list, err := svc.ListTrackable(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]subjectResponse, 0, len(list))
		for _, sub := range list {
			out = append(out, toSubjectResponse(sub))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type assignTeamLeadRequest struct {
	TeamLeadID string `json:"team_lead_id"`
}

// assignTeamLeadHandler godoc
// @Summary Reasignar team lead (admin)
// @Description Mueve un subject a otro team_lead. El destino debe tener rol team_lead.
// @Tags admin
// @Accept json
// @Produce json
// @Param subjectID path string true "ID del subject"
// @Param payload body assignTeamLeadRequest true "Team lead destino"
// @Success 200 {object} subjectResponse
// @Failure 400 {string} string "invalid json / destino no es team_lead"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "subject not found"
// @Router /admin/subjects/{subjectID}/team [post]
func assignTeamLeadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireRole(w, r, RoleAdmin) {
			return
		}

		var req assignTeamLeadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sub, err := svc.AssignTeamLead(r.Context(), chi.URLParam(r, "subjectID"), req.TeamLeadID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSubjectResponse(sub))
	}
}

type bulkProvisionRequest struct {
	Records []ProvisionRecord `json:"records"`
}

// bulkProvisionHandler godoc
// @Summary Alta masiva de miembros (team_lead)
// @Description Crea subjects en lote bajo el team_lead autenticado. Recibe registros ya validados por el colaborador de bulk-import (el parseo de planillas queda afuera). Cada fila se procesa independiente y el resultado trae conteos por fila.
// @Tags team
// @Accept json
// @Produce json
// @Param payload body bulkProvisionRequest true "Registros de alta"
// @Success 200 {object} BulkResult
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /team/members/bulk [post]
func bulkProvisionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}
		if claims.Role != string(RoleTeamLead) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req bulkProvisionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.BulkProvision(r.Context(), req.Records, claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}

type bulkAssignRequest struct {
	Records []AssignmentRecord `json:"records"`
}

// bulkAssignHandler godoc
// @Summary Reasignación masiva de equipos (admin)
// @Description Reasigna subjects a team leads en lote, con conteos por fila.
// @Tags admin
// @Accept json
// @Produce json
// @Param payload body bulkAssignRequest true "Registros de reasignación"
// @Success 200 {object} BulkResult
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /admin/subjects/assign [post]
func bulkAssignHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireRole(w, r, RoleAdmin) {
			return
		}

		var req bulkAssignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.BulkAssign(r.Context(), req.Records)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}

func requireClaims(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, false
	}
	return claims, true
}

func requireRole(w http.ResponseWriter, r *http.Request, role Role) bool {
	claims, ok := requireClaims(w, r)
	if !ok {
		return false
	}
	if claims.Role != string(role) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotTeamLead):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "subject not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toSubjectResponse(s Subject) subjectResponse {
	return subjectResponse{
		ID:         s.ID,
		Name:       s.Name,
		Location:   s.Location,
		Role:       s.Role,
		TeamLeadID: s.TeamLeadID,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
