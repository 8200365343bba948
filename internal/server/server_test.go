package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vesselworks/graftplan/pkg/catalog"
	"github.com/vesselworks/graftplan/pkg/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	srv := New(session.NewMemoryStore(), catalog.Default(), logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func createSession(t *testing.T, ts *httptest.Server, device string) sessionResponse {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/sessions", createSessionRequest{Device: device})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session = %d: %s", resp.StatusCode, body)
	}
	var sess sessionResponse
	if err := json.Unmarshal(body, &sess); err != nil {
		t.Fatal(err)
	}
	return sess
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		t.Fatalf("unmarshal error body %q: %v", body, err)
	}
	return eb.Error.Code
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)

	sess := createSession(t, ts, "24x145")
	if sess.ID == "" {
		t.Fatal("session ID is empty")
	}
	if sess.Plan.Device != "Tube graft 24 x 145" {
		t.Errorf("Plan.Device = %q", sess.Plan.Device)
	}
	if len(sess.Plan.Fenestrations) != 0 {
		t.Errorf("new session has %d fenestrations", len(sess.Plan.Fenestrations))
	}
}

func TestCreateSessionUnknownDevice(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/sessions", createSessionRequest{Device: "99x999"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if code := errorCode(t, body); code != "INVALID_DEVICE" {
		t.Errorf("error code = %q, want INVALID_DEVICE", code)
	}
}

func TestGetUnknownSession(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/sessions/nope", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if code := errorCode(t, body); code != "SESSION_NOT_FOUND" {
		t.Errorf("error code = %q, want SESSION_NOT_FOUND", code)
	}
}

func TestAddFenestration(t *testing.T) {
	ts := newTestServer(t)
	sess := createSession(t, ts, "24x145")

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+sess.ID+"/fenestrations",
		addFenestrationRequest{Vessel: "sma", DistanceMM: 50, ClockHour: 12, DiameterMM: 6})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add = %d: %s", resp.StatusCode, body)
	}

	var got sessionResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Plan.Fenestrations) != 1 {
		t.Fatalf("got %d fenestrations, want 1", len(got.Plan.Fenestrations))
	}
	f := got.Plan.Fenestrations[0]
	if f.Vessel.Key != "sma" || f.DistanceMM != 50 || f.ClockHour != 12 || f.DiameterMM != 6 {
		t.Errorf("fenestration = %+v", f)
	}
}

func TestAddFenestrationValidation(t *testing.T) {
	tests := []struct {
		name     string
		req      addFenestrationRequest
		wantCode string
	}{
		{
			name:     "unknown vessel",
			req:      addFenestrationRequest{Vessel: "aorta", DistanceMM: 50, ClockHour: 12, DiameterMM: 6},
			wantCode: "INVALID_VESSEL",
		},
		{
			name:     "clock hour out of range",
			req:      addFenestrationRequest{Vessel: "sma", DistanceMM: 50, ClockHour: 13, DiameterMM: 6},
			wantCode: "INVALID_CLOCK",
		},
		{
			name:     "distance beyond graft",
			req:      addFenestrationRequest{Vessel: "sma", DistanceMM: 200, ClockHour: 12, DiameterMM: 6},
			wantCode: "INVALID_DISTANCE",
		},
		{
			name:     "diameter below minimum",
			req:      addFenestrationRequest{Vessel: "sma", DistanceMM: 50, ClockHour: 12, DiameterMM: 3.9},
			wantCode: "INVALID_DIAMETER",
		},
	}

	ts := newTestServer(t)
	sess := createSession(t, ts, "24x145")

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+sess.ID+"/fenestrations", tc.req)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", resp.StatusCode, body)
			}
			if code := errorCode(t, body); code != tc.wantCode {
				t.Errorf("error code = %q, want %q", code, tc.wantCode)
			}
		})
	}
}

func TestAddFenestrationSpacingConflict(t *testing.T) {
	ts := newTestServer(t)
	sess := createSession(t, ts, "24x145")
	base := ts.URL + "/api/sessions/" + sess.ID

	resp, body := doJSON(t, http.MethodPost, base+"/fenestrations",
		addFenestrationRequest{Vessel: "sma", DistanceMM: 50, ClockHour: 12, DiameterMM: 6})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first add = %d: %s", resp.StatusCode, body)
	}

	// 3 mm below the spacing floor, even on the opposite side of the graft.
	resp, body = doJSON(t, http.MethodPost, base+"/fenestrations",
		addFenestrationRequest{Vessel: "rra", DistanceMM: 53, ClockHour: 6, DiameterMM: 6})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("conflicting add = %d, want 409: %s", resp.StatusCode, body)
	}
	if code := errorCode(t, body); code != "SPACING_CONFLICT" {
		t.Errorf("error code = %q, want SPACING_CONFLICT", code)
	}

	// The rejected command must not have touched the stored session.
	resp, body = doJSON(t, http.MethodGet, base, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get = %d", resp.StatusCode)
	}
	var got sessionResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Plan.Fenestrations) != 1 {
		t.Errorf("stored plan has %d fenestrations after rejected add, want 1", len(got.Plan.Fenestrations))
	}
}

func TestRemoveAndClearFenestrations(t *testing.T) {
	ts := newTestServer(t)
	sess := createSession(t, ts, "24x145")
	base := ts.URL + "/api/sessions/" + sess.ID

	for i, req := range []addFenestrationRequest{
		{Vessel: "celiac", DistanceMM: 30, ClockHour: 12, DiameterMM: 8},
		{Vessel: "sma", DistanceMM: 50, ClockHour: 12, DiameterMM: 6},
		{Vessel: "rra", DistanceMM: 70, ClockHour: 3, DiameterMM: 6},
	} {
		if resp, body := doJSON(t, http.MethodPost, base+"/fenestrations", req); resp.StatusCode != http.StatusOK {
			t.Fatalf("add %d = %d: %s", i, resp.StatusCode, body)
		}
	}

	resp, body := doJSON(t, http.MethodDelete, base+"/fenestrations/1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove = %d: %s", resp.StatusCode, body)
	}
	var got sessionResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Plan.Fenestrations) != 2 {
		t.Fatalf("got %d fenestrations after remove, want 2", len(got.Plan.Fenestrations))
	}
	// Insertion order is preserved around the removed entry.
	if got.Plan.Fenestrations[0].Vessel.Key != "celiac" || got.Plan.Fenestrations[1].Vessel.Key != "rra" {
		t.Errorf("order after remove = %s, %s",
			got.Plan.Fenestrations[0].Vessel.Key, got.Plan.Fenestrations[1].Vessel.Key)
	}

	resp, body = doJSON(t, http.MethodDelete, base+"/fenestrations/7", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("remove out of range = %d, want 400: %s", resp.StatusCode, body)
	}
	if code := errorCode(t, body); code != "INVALID_INDEX" {
		t.Errorf("error code = %q, want INVALID_INDEX", code)
	}

	resp, body = doJSON(t, http.MethodDelete, base+"/fenestrations", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear = %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Plan.Fenestrations) != 0 {
		t.Errorf("got %d fenestrations after clear, want 0", len(got.Plan.Fenestrations))
	}
}

func TestSessionsDoNotShareState(t *testing.T) {
	ts := newTestServer(t)
	a := createSession(t, ts, "24x145")
	b := createSession(t, ts, "28x160")

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+a.ID+"/fenestrations",
		addFenestrationRequest{Vessel: "sma", DistanceMM: 50, ClockHour: 12, DiameterMM: 6})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add = %d: %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+b.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get = %d", resp.StatusCode)
	}
	var got sessionResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Plan.Fenestrations) != 0 {
		t.Errorf("session B gained %d fenestrations from session A", len(got.Plan.Fenestrations))
	}
	if got.Plan.Device != "Tube graft 28 x 160" {
		t.Errorf("session B device = %q", got.Plan.Device)
	}
}

func TestPreviewEmptyLayout(t *testing.T) {
	ts := newTestServer(t)
	sess := createSession(t, ts, "24x145")

	for _, path := range []string{"/preview.svg", "/preview.png", "/template.svg", "/template.pdf"} {
		t.Run(strings.TrimPrefix(path, "/"), func(t *testing.T) {
			resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+sess.ID+path, nil)
			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422: %s", resp.StatusCode, body)
			}
			if code := errorCode(t, body); code != "EMPTY_LAYOUT" {
				t.Errorf("error code = %q, want EMPTY_LAYOUT", code)
			}
		})
	}
}

func TestPreviewSVG(t *testing.T) {
	ts := newTestServer(t)
	sess := createSession(t, ts, "24x145")

	if resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+sess.ID+"/fenestrations",
		addFenestrationRequest{Vessel: "sma", DistanceMM: 50, ClockHour: 12, DiameterMM: 6}); resp.StatusCode != http.StatusOK {
		t.Fatalf("add = %d: %s", resp.StatusCode, body)
	}

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+sess.ID+"/preview.svg", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preview = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	svg := string(body)
	if !strings.Contains(svg, "<circle") {
		t.Error("preview has no fenestration circle")
	}
	if !strings.Contains(svg, "SMA") {
		t.Error("preview is missing the vessel label")
	}
}

func TestPreviewRejectsBadScale(t *testing.T) {
	ts := newTestServer(t)
	sess := createSession(t, ts, "24x145")

	if resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+sess.ID+"/fenestrations",
		addFenestrationRequest{Vessel: "sma", DistanceMM: 50, ClockHour: 12, DiameterMM: 6}); resp.StatusCode != http.StatusOK {
		t.Fatalf("add = %d: %s", resp.StatusCode, body)
	}

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+sess.ID+"/preview.svg?scale=-2", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", resp.StatusCode, body)
	}
	if code := errorCode(t, body); code != "INVALID_INPUT" {
		t.Errorf("error code = %q, want INVALID_INPUT", code)
	}
}

func TestDocumentSVGDeclaresMillimeters(t *testing.T) {
	ts := newTestServer(t)
	sess := createSession(t, ts, "24x145")

	if resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+sess.ID+"/fenestrations",
		addFenestrationRequest{Vessel: "sma", DistanceMM: 50, ClockHour: 12, DiameterMM: 6}); resp.StatusCode != http.StatusOK {
		t.Fatalf("add = %d: %s", resp.StatusCode, body)
	}

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+sess.ID+"/template.svg", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("template = %d: %s", resp.StatusCode, body)
	}
	header := string(body[:bytes.IndexByte(body, '\n')])
	if !strings.Contains(header, `width="`) || !strings.Contains(header, `mm"`) {
		t.Errorf("document header does not declare mm dimensions: %s", header)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/devices", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("devices = %d", resp.StatusCode)
	}
	var devices []catalog.Device
	if err := json.Unmarshal(body, &devices); err != nil {
		t.Fatal(err)
	}
	if len(devices) == 0 {
		t.Error("device catalog is empty")
	}

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/vessels", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("vessels = %d", resp.StatusCode)
	}
	var vessels []catalog.Vessel
	if err := json.Unmarshal(body, &vessels); err != nil {
		t.Fatal(err)
	}
	if len(vessels) == 0 {
		t.Error("vessel catalog is empty")
	}
}

func TestDeleteSession(t *testing.T) {
	ts := newTestServer(t)
	sess := createSession(t, ts, "24x145")

	resp, _ := doJSON(t, http.MethodDelete, ts.URL+"/api/sessions/"+sess.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete = %d, want 204", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+sess.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404: %s", resp.StatusCode, body)
	}
}
