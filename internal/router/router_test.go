package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Identidades de prueba inyectadas vía headers de dev mode (sin verifier).
type testIdentity struct {
	id   string
	role string
}

var adminID = testIdentity{id: "admin-1", role: "admin"}

func doReq(t *testing.T, srv *httptest.Server, ident testIdentity, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, srv.URL+path, payload)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if ident.id != "" {
		req.Header.Set("X-Debug-User-ID", ident.id)
		req.Header.Set("X-Debug-Role", ident.role)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func decode(t *testing.T, raw []byte, out any) {
	t.Helper()
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
}

type subjectPayload struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Location   string  `json:"location"`
	Role       string  `json:"role"`
	TeamLeadID *string `json:"team_lead_id"`
}

type statusPayload struct {
	SubjectID      string  `json:"subject_id"`
	InShelter      *bool   `json:"in_shelter"`
	SafeAfterAlarm *bool   `json:"safe_after_alarm"`
	RecordedAt     *string `json:"recorded_at"`
}

type statsPayload struct {
	Location            string `json:"location"`
	InShelterCount      int    `json:"in_shelter_count"`
	SafeAfterAlarmCount int    `json:"safe_after_alarm_count"`
	SubjectCount        int    `json:"subject_count"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(Options{}))
	t.Cleanup(srv.Close)
	return srv
}

func createSubject(t *testing.T, srv *httptest.Server, name, location, role string) subjectPayload {
	t.Helper()
	resp, raw := doReq(t, srv, adminID, http.MethodPost, "/admin/subjects", map[string]string{
		"name": name, "location": location, "role": role,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create subject %s: status %d, body %s", name, resp.StatusCode, raw)
	}
	var sub subjectPayload
	decode(t, raw, &sub)
	return sub
}

func assignTeam(t *testing.T, srv *httptest.Server, subjectID, teamLeadID string) {
	t.Helper()
	resp, raw := doReq(t, srv, adminID, http.MethodPost, "/admin/subjects/"+subjectID+"/team", map[string]string{
		"team_lead_id": teamLeadID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assign team: status %d, body %s", resp.StatusCode, raw)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doReq(t, srv, testIdentity{}, http.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: status %d", resp.StatusCode)
	}
}

func TestStatusFlow_SelfReportAndMerge(t *testing.T) {
	srv := newTestServer(t)

	user := testIdentity{id: "user-1", role: "user"}

	// Sin historia: todo unknown.
	resp, raw := doReq(t, srv, user, http.MethodGet, "/status", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /status: status %d", resp.StatusCode)
	}
	var st statusPayload
	decode(t, raw, &st)
	if st.InShelter != nil || st.SafeAfterAlarm != nil || st.RecordedAt != nil {
		t.Fatalf("expected all-unknown state, got %s", raw)
	}

	// Primer reporte: solo in_shelter.
	resp, raw = doReq(t, srv, user, http.MethodPost, "/status", map[string]any{"in_shelter": true})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /status: status %d, body %s", resp.StatusCode, raw)
	}

	// Segundo reporte parcial: el campo ausente se arrastra.
	resp, raw = doReq(t, srv, user, http.MethodPost, "/status", map[string]any{"safe_after_alarm": true})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /status #2: status %d, body %s", resp.StatusCode, raw)
	}
	decode(t, raw, &st)
	if st.InShelter == nil || !*st.InShelter || st.SafeAfterAlarm == nil || !*st.SafeAfterAlarm {
		t.Fatalf("expected merged {true,true}, got %s", raw)
	}
	if st.RecordedAt == nil {
		t.Fatalf("expected recorded_at on appended event")
	}

	// null explícito limpia a unknown sin tocar el otro campo.
	resp, raw = doReq(t, srv, user, http.MethodPost, "/status", json.RawMessage(`{"in_shelter": null}`))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /status #3: status %d, body %s", resp.StatusCode, raw)
	}
	decode(t, raw, &st)
	if st.InShelter != nil {
		t.Fatalf("expected in_shelter cleared, got %s", raw)
	}
	if st.SafeAfterAlarm == nil || !*st.SafeAfterAlarm {
		t.Fatalf("expected safe_after_alarm carried, got %s", raw)
	}

	// Historia: 3 filas, más reciente primero.
	resp, raw = doReq(t, srv, user, http.MethodGet, "/status/history", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /status/history: status %d", resp.StatusCode)
	}
	var history []statusPayload
	decode(t, raw, &history)
	if len(history) != 3 {
		t.Fatalf("expected 3 events, got %d", len(history))
	}
	if history[0].InShelter != nil {
		t.Fatalf("newest event first: expected cleared in_shelter, got %s", raw)
	}
}

func TestStatusFlow_UnauthenticatedRejected(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doReq(t, srv, testIdentity{}, http.MethodGet, "/status", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	resp, _ = doReq(t, srv, testIdentity{}, http.MethodPost, "/status", map[string]any{"in_shelter": true})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestScopedReads_TeamBoundary(t *testing.T) {
	srv := newTestServer(t)

	lead1 := createSubject(t, srv, "Lead One", "North", "team_lead")
	lead2 := createSubject(t, srv, "Lead Two", "South", "team_lead")
	member := createSubject(t, srv, "Adam", "North", "user")
	stranger := createSubject(t, srv, "Beth", "South", "user")
	assignTeam(t, srv, member.ID, lead1.ID)
	assignTeam(t, srv, stranger.ID, lead2.ID)

	memberIdent := testIdentity{id: member.ID, role: "user"}
	lead1Ident := testIdentity{id: lead1.ID, role: "team_lead"}
	lead2Ident := testIdentity{id: lead2.ID, role: "team_lead"}

	resp, raw := doReq(t, srv, memberIdent, http.MethodPost, "/status", map[string]any{"in_shelter": true})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("member POST /status: status %d, body %s", resp.StatusCode, raw)
	}

	// El team lead propio puede leer.
	resp, raw = doReq(t, srv, lead1Ident, http.MethodGet, "/subjects/"+member.ID+"/status", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("own lead read: status %d, body %s", resp.StatusCode, raw)
	}
	var st statusPayload
	decode(t, raw, &st)
	if st.InShelter == nil || !*st.InShelter {
		t.Fatalf("lead read: expected in_shelter true, got %s", raw)
	}

	// Otro team lead no.
	resp, _ = doReq(t, srv, lead2Ident, http.MethodGet, "/subjects/"+member.ID+"/status", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("cross-team read: expected 403, got %d", resp.StatusCode)
	}

	// Un user tampoco lee a otro user.
	resp, _ = doReq(t, srv, memberIdent, http.MethodGet, "/subjects/"+stranger.ID+"/status", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("peer read: expected 403, got %d", resp.StatusCode)
	}

	// Rol desconocido: cerrado.
	resp, _ = doReq(t, srv, testIdentity{id: member.ID, role: "superuser"}, http.MethodGet, "/subjects/"+member.ID+"/status", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("unknown role: expected 403, got %d", resp.StatusCode)
	}

	// Subject inexistente: 404 antes que 403.
	resp, _ = doReq(t, srv, lead1Ident, http.MethodGet, "/subjects/no-such-id/status", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing subject: expected 404, got %d", resp.StatusCode)
	}
}

func TestTeamStats_CountsOnlyTrue(t *testing.T) {
	srv := newTestServer(t)

	lead := createSubject(t, srv, "Lead", "North", "team_lead")
	u1 := createSubject(t, srv, "U1", "North", "user")
	u2 := createSubject(t, srv, "U2", "North", "user")
	assignTeam(t, srv, u1.ID, lead.ID)
	assignTeam(t, srv, u2.ID, lead.ID)

	// u1 reporta refugio; u2 nunca reporta.
	resp, raw := doReq(t, srv, testIdentity{id: u1.ID, role: "user"}, http.MethodPost, "/status", map[string]any{"in_shelter": true})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /status: status %d, body %s", resp.StatusCode, raw)
	}

	resp, raw = doReq(t, srv, testIdentity{id: lead.ID, role: "team_lead"}, http.MethodGet, "/team/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /team/stats: status %d, body %s", resp.StatusCode, raw)
	}

	var stats []statsPayload
	decode(t, raw, &stats)
	if len(stats) != 1 {
		t.Fatalf("expected one location group, got %s", raw)
	}
	got := stats[0]
	if got.Location != "North" || got.InShelterCount != 1 || got.SafeAfterAlarmCount != 0 || got.SubjectCount != 2 {
		t.Fatalf("stats mismatch: %+v", got)
	}
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	srv := newTestServer(t)

	lead := createSubject(t, srv, "Lead", "North", "team_lead")
	leadIdent := testIdentity{id: lead.ID, role: "team_lead"}

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/admin/subjects"},
		{http.MethodGet, "/admin/stats"},
		{http.MethodGet, "/admin/report"},
		{http.MethodDelete, "/admin/statuses"},
	}
	for _, p := range paths {
		resp, _ := doReq(t, srv, leadIdent, p.method, p.path, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("%s %s as team_lead: expected 403, got %d", p.method, p.path, resp.StatusCode)
		}
	}
}

func TestAdminReset_CountsAndClears(t *testing.T) {
	srv := newTestServer(t)

	u1 := createSubject(t, srv, "U1", "North", "user")
	u1Ident := testIdentity{id: u1.ID, role: "user"}

	doReq(t, srv, u1Ident, http.MethodPost, "/status", map[string]any{"in_shelter": true})
	doReq(t, srv, u1Ident, http.MethodPost, "/status", map[string]any{"safe_after_alarm": true})

	resp, raw := doReq(t, srv, adminID, http.MethodDelete, "/admin/statuses", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE /admin/statuses: status %d, body %s", resp.StatusCode, raw)
	}
	var reset struct {
		Removed int64 `json:"removed"`
	}
	decode(t, raw, &reset)
	if reset.Removed != 2 {
		t.Fatalf("expected 2 removed events, got %d", reset.Removed)
	}

	// Tras el reset el estado vuelve a all-unknown.
	resp, raw = doReq(t, srv, u1Ident, http.MethodGet, "/status", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /status after reset: status %d", resp.StatusCode)
	}
	var st statusPayload
	decode(t, raw, &st)
	if st.InShelter != nil || st.SafeAfterAlarm != nil || st.RecordedAt != nil {
		t.Fatalf("expected sentinel after reset, got %s", raw)
	}
}

func TestBulkProvision_TeamLeadOwnsCreated(t *testing.T) {
	srv := newTestServer(t)

	lead := createSubject(t, srv, "Lead", "North", "team_lead")
	leadIdent := testIdentity{id: lead.ID, role: "team_lead"}

	resp, raw := doReq(t, srv, leadIdent, http.MethodPost, "/team/members/bulk", map[string]any{
		"records": []map[string]string{
			{"name": "Adam", "location": "North"},
			{"name": "", "location": "North"},
			{"name": "Beth", "location": "South"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bulk provision: status %d, body %s", resp.StatusCode, raw)
	}

	var res struct {
		SuccessCount int      `json:"success_count"`
		ErrorCount   int      `json:"error_count"`
		Errors       []string `json:"errors"`
	}
	decode(t, raw, &res)
	if res.SuccessCount != 2 || res.ErrorCount != 1 || len(res.Errors) != 1 {
		t.Fatalf("bulk accounting: %+v", res)
	}

	// El roster del lead refleja las altas.
	resp, raw = doReq(t, srv, leadIdent, http.MethodGet, "/team/members", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /team/members: status %d, body %s", resp.StatusCode, raw)
	}
	var members []subjectPayload
	decode(t, raw, &members)
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].Name != "Adam" || members[1].Name != "Beth" {
		t.Fatalf("expected roster ordered by name, got %+v", members)
	}
}

func TestMe_ReturnsClaimsAndProfile(t *testing.T) {
	srv := newTestServer(t)

	u1 := createSubject(t, srv, "Adam", "North", "user")

	resp, raw := doReq(t, srv, testIdentity{id: u1.ID, role: "user"}, http.MethodGet, "/me", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /me: status %d, body %s", resp.StatusCode, raw)
	}

	var me struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Location string `json:"location"`
		Role     string `json:"role"`
	}
	decode(t, raw, &me)
	if me.ID != u1.ID || me.Name != "Adam" || me.Location != "North" || me.Role != "user" {
		t.Fatalf("me mismatch: %+v", me)
	}
}
