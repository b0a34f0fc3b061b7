package statuses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"shelter-status/internal/domain/scope"
	"shelter-status/internal/domain/subjects"
	"shelter-status/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, subjectsSvc *subjects.Service, resolver *scope.Resolver) {
	// Rutas self: siempre operan sobre el propio subject del actor.
	r.Get("/status", latestSelfHandler(svc))
	r.Post("/status", appendStatusHandler(svc))
	r.Get("/status/history", historySelfHandler(svc))

	// Rutas scoped: leer el ledger de otro subject pasa por el Scope Resolver.
	r.Route("/subjects/{subjectID}/status", func(sr chi.Router) {
		sr.Get("/", latestScopedHandler(svc, subjectsSvc, resolver))
		sr.Get("/history", historyScopedHandler(svc, subjectsSvc, resolver))
	})
}

// statusResponse es el estado derivado que ve el caller.
// Campos en nil => unknown; recorded_at nil => sin historia.
type statusResponse struct {
	SubjectID      string  `json:"subject_id"`
	InShelter      *bool   `json:"in_shelter"`
	SafeAfterAlarm *bool   `json:"safe_after_alarm"`
	RecordedAt     *string `json:"recorded_at"`
}

// appendStatusHandler godoc
// @Summary Reportar cambio de estado
// @Description Agrega un evento al ledger del propio actor. El body puede traer cero, uno o dos campos; los que no vengan se arrastran del estado previo (carry-forward). `null` explícito vuelve el campo a unknown.
// @Tags statuses
// @Accept json
// @Produce json
// @Param payload body PartialUpdate true "Partial update; campos ausentes se arrastran"
// @Success 201 {object} statusResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "storage error"
// @Router /status [post]
func appendStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var upd PartialUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.Append(r.Context(), claims.UserID, upd)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toStatusResponse(e))
	}
}

// latestSelfHandler godoc
// @Summary Último estado propio
// @Description Devuelve el estado actual del actor. Sin historia => campos en null.
// @Tags statuses
// @Produce json
// @Success 200 {object} statusResponse
// @Failure 401 {string} string "unauthorized"
// @Router /status [get]
func latestSelfHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		e, err := svc.Latest(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toStatusResponse(e))
	}
}

// historySelfHandler godoc
// @Summary Historia de estados propia
// @Description Lista los eventos del actor, más reciente primero. Pagina con limit (1-200, default 50) y before (RFC3339).
// @Tags statuses
// @Produce json
// @Param limit query int false "Máximo de eventos a devolver (1-200)"
// @Param before query string false "Solo eventos anteriores a este instante (RFC3339)"
// @Success 200 {array} statusResponse
// @Failure 400 {string} string "before must be RFC3339"
// @Failure 401 {string} string "unauthorized"
// @Router /status/history [get]
func historySelfHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		writeHistory(w, r, svc, claims.UserID)
	}
}

// latestScopedHandler godoc
// @Summary Último estado de un subject
// @Description Devuelve el estado actual de otro subject. El Scope Resolver decide: team_lead ve su equipo, admin ve todo el personal rastreable, user solo a sí mismo.
// @Tags statuses
// @Produce json
// @Param subjectID path string true "ID del subject"
// @Success 200 {object} statusResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "subject not found"
// @Router /subjects/{subjectID}/status [get]
func latestScopedHandler(svc *Service, subjectsSvc *subjects.Service, resolver *scope.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjectID, ok := authorizeScopedRead(w, r, subjectsSvc, resolver)
		if !ok {
			return
		}

		e, err := svc.Latest(r.Context(), subjectID)
		if err != nil {
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toStatusResponse(e))
	}
}

// historyScopedHandler godoc
// @Summary Historia de estados de un subject
// @Description Lista los eventos de otro subject, gated por el Scope Resolver. Historia vacía es un resultado normal, no un 404.
// @Tags statuses
// @Produce json
// @Param subjectID path string true "ID del subject"
// @Param limit query int false "Máximo de eventos a devolver (1-200)"
// @Param before query string false "Solo eventos anteriores a este instante (RFC3339)"
// @Success 200 {array} statusResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "subject not found"
// @Router /subjects/{subjectID}/status/history [get]
func historyScopedHandler(svc *Service, subjectsSvc *subjects.Service, resolver *scope.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjectID, ok := authorizeScopedRead(w, r, subjectsSvc, resolver)
		if !ok {
			return
		}

		writeHistory(w, r, svc, subjectID)
	}
}

// authorizeScopedRead resuelve claims + existencia del subject + predicado
// de scope. Escribe la respuesta de error y devuelve ok=false si algo corta.
func authorizeScopedRead(w http.ResponseWriter, r *http.Request, subjectsSvc *subjects.Service, resolver *scope.Resolver) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}

	subjectID := chi.URLParam(r, "subjectID")
	if _, err := subjectsSvc.GetByID(r.Context(), subjectID); err != nil {
		http.Error(w, "subject not found", http.StatusNotFound)
		return "", false
	}

	sc, err := resolver.Resolve(r.Context(), scope.Actor{ID: claims.UserID, Role: claims.Role})
	if err != nil {
		// Rol desconocido o error resolviendo: cerrado, no abierto.
		http.Error(w, "forbidden", http.StatusForbidden)
		return "", false
	}
	if !sc.Allows(subjectID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return "", false
	}

	return subjectID, true
}

func writeHistory(w http.ResponseWriter, r *http.Request, svc *Service, subjectID string) {
	filter, err := parseHistoryFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := svc.History(r.Context(), subjectID, filter)
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	out := make([]statusResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toStatusResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func parseHistoryFilter(r *http.Request) (HistoryFilter, error) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	filter := HistoryFilter{Limit: limit}

	if v := strings.TrimSpace(r.URL.Query().Get("before")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return HistoryFilter{}, errors.New("before must be RFC3339")
		}
		filter.Before = &t
	}

	return filter, nil
}

func toStatusResponse(e StatusEvent) statusResponse {
	resp := statusResponse{
		SubjectID:      e.SubjectID,
		InShelter:      e.InShelter,
		SafeAfterAlarm: e.SafeAfterAlarm,
	}
	if !e.RecordedAt.IsZero() {
		ts := e.RecordedAt.Format(time.RFC3339)
		resp.RecordedAt = &ts
	}
	return resp
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
