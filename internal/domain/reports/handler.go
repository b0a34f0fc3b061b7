package reports

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"shelter-status/internal/domain/scope"
	"shelter-status/internal/domain/subjects"
	"shelter-status/internal/middleware"
	"shelter-status/internal/platform/timeutil"
)

func RegisterRoutes(r chi.Router, svc *Service, resolver *scope.Resolver) {
	r.Get("/team/members", membersHandler(svc, resolver, subjects.RoleTeamLead))
	r.Get("/team/stats", statsHandler(svc, resolver, subjects.RoleTeamLead))
	r.Get("/team/report", reportHandler(svc, resolver, subjects.RoleTeamLead))

	r.Get("/admin/stats", statsHandler(svc, resolver, subjects.RoleAdmin))
	r.Get("/admin/report", reportHandler(svc, resolver, subjects.RoleAdmin))
}

// statsHandler godoc
// @Summary Estadísticas por ubicación
// @Description Agrega el estado actual del set visible del actor agrupado por ubicación: cuántos en refugio, cuántos confirmados a salvo, total por grupo. Orden estable por ubicación.
// @Tags reports
// @Produce json
// @Success 200 {array} LocationSummary
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 500 {string} string "internal error"
// @Router /team/stats [get]
func statsHandler(svc *Service, resolver *scope.Resolver, role subjects.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, ok := resolveScope(w, r, resolver, role)
		if !ok {
			return
		}

		out, err := svc.Summarize(r.Context(), sc.Subjects())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// membersHandler godoc
// @Summary Roster del equipo con último estado
// @Description Lista los miembros del equipo del team_lead autenticado con el estado actual de cada uno (campos en null = sin reporte).
// @Tags reports
// @Produce json
// @Success 200 {array} MemberStatus
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 500 {string} string "internal error"
// @Router /team/members [get]
func membersHandler(svc *Service, resolver *scope.Resolver, role subjects.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, ok := resolveScope(w, r, resolver, role)
		if !ok {
			return
		}

		out, err := svc.Members(r.Context(), sc.Subjects())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// reportHandler godoc
// @Summary Filas de reporte
// @Description Devuelve las filas planas (strings) que consume el report collaborator externo para renderizar PDF/planilla. Timestamps en la zona de reporte (REPORT_TZ).
// @Tags reports
// @Produce json
// @Success 200 {array} ReportRow
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 500 {string} string "internal error"
// @Router /team/report [get]
func reportHandler(svc *Service, resolver *scope.Resolver, role subjects.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, ok := resolveScope(w, r, resolver, role)
		if !ok {
			return
		}

		out, err := svc.Rows(r.Context(), sc.Subjects(), timeutil.ReportLocation())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// resolveScope exige el rol pedido y resuelve el scope del actor.
// Escribe la respuesta de error y devuelve ok=false si algo corta.
func resolveScope(w http.ResponseWriter, r *http.Request, resolver *scope.Resolver, role subjects.Role) (scope.Scope, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return scope.Scope{}, false
	}
	if claims.Role != string(role) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return scope.Scope{}, false
	}

	sc, err := resolver.Resolve(r.Context(), scope.Actor{ID: claims.UserID, Role: claims.Role})
	if err != nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return scope.Scope{}, false
	}
	return sc, true
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
