package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/zapponejosh/panchanga-api/internal/config"
	"github.com/zapponejosh/panchanga-api/internal/ephemeris"
	"github.com/zapponejosh/panchanga-api/internal/logger"
	"github.com/zapponejosh/panchanga-api/internal/panchanga"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

var testStart = ephemeris.JulianDay(2025, 1, 1, 0)

// fakeSource moves the Sun and Moon at mean rates and puts sunrise at 06:00
// and sunset at 18:00 local time.
type fakeSource struct {
	longitudeErr error
}

func (f fakeSource) BodyLongitude(jd float64, body ephemeris.Body) (float64, error) {
	if f.longitudeErr != nil {
		return 0, f.longitudeErr
	}
	days := jd - testStart
	if body == ephemeris.Sun {
		return ephemeris.Normalize360(280 + 0.9856*days), nil
	}
	return ephemeris.Normalize360(100 + 13.176*days), nil
}

func (f fakeSource) RiseTransit(jd float64, body ephemeris.Body, kind ephemeris.EventKind, _ ephemeris.GeoPosition, _ ephemeris.Atmosphere) (float64, bool, error) {
	switch {
	case body == ephemeris.Sun && kind == ephemeris.Rise:
		return jd + 0.25, true, nil
	case body == ephemeris.Sun:
		return jd + 0.75, true, nil
	case kind == ephemeris.Rise:
		return jd + 10.0/24, true, nil
	default:
		return jd + 22.0/24, true, nil
	}
}

// brokenSunrise reports an oracle error for every rise and set query.
type brokenSunrise struct{ fakeSource }

func (brokenSunrise) RiseTransit(float64, ephemeris.Body, ephemeris.EventKind, ephemeris.GeoPosition, ephemeris.Atmosphere) (float64, bool, error) {
	return 0, false, errors.New("no ephemeris data")
}

const testAPIKey = "test-key-32-characters-minimum-length"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError, // Quiet during tests
	}))
}

func testConfig() *config.Config {
	aligarh := panchanga.Location{Name: "aligarh", Latitude: 27.88145, Longitude: 78.07464, UTCOffset: 5.5}
	return &config.Config{
		Port:            8080,
		Env:             config.EnvDevelopment,
		DatabasePath:    ":memory:",
		APIKey:          testAPIKey,
		LogLevel:        "error",
		LogFormat:       "text",
		Location:        aligarh,
		Locations:       []panchanga.Location{aligarh, {Name: "London", Latitude: 51.5074, Longitude: -0.1278, UTCOffset: 0}},
		Year:            2025,
		SiderealMode:    string(ephemeris.ModeLahiri),
		EphemerisEngine: ephemeris.EngineBuiltin,
	}
}

// setupRouter builds the full router over src.
func setupRouter(t *testing.T, src panchanga.Source, cfg *config.Config) http.Handler {
	t.Helper()

	log := quietLogger()
	h, err := NewHandlers(src, cfg, log)
	if err != nil {
		t.Fatalf("NewHandlers: %v", err)
	}
	h.now = func() time.Time { return time.Date(2025, 1, 5, 3, 0, 0, 0, time.UTC) }

	return SetupRoutes(h, cfg, log)
}

func makeRequest(method, path, apiKey string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	return req
}

// apiResponse mirrors Response with the payload left raw.
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
}

func serve(t *testing.T, router http.Handler, req *http.Request) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var resp apiResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v, body: %s", err, rr.Body.String())
	}
	return rr, resp
}

func decodeData(t *testing.T, resp apiResponse, v any) {
	t.Helper()
	if err := json.Unmarshal(resp.Data, v); err != nil {
		t.Fatalf("decode data: %v, data: %s", err, resp.Data)
	}
}

// =============================================================================
// MIDDLEWARE TESTS
// =============================================================================

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	prod := testConfig()
	prod.Env = config.EnvProduction

	devNoKey := testConfig()
	devNoKey.APIKey = ""

	tests := []struct {
		name   string
		cfg    *config.Config
		apiKey string
		want   int
	}{
		{"valid key", prod, testAPIKey, http.StatusOK},
		{"missing key", prod, "", http.StatusUnauthorized},
		{"invalid key", prod, "not-the-key", http.StatusUnauthorized},
		{"development without key configured", devNoKey, "", http.StatusOK},
		{"development with key configured", testConfig(), "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(tt.cfg, quietLogger())(okHandler())

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, makeRequest("GET", "/test", tt.apiKey))

			if rr.Code != tt.want {
				t.Errorf("Status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
	}))

	t.Run("generates an ID", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, makeRequest("GET", "/test", ""))

		got := rr.Header().Get(RequestIDHeader)
		if got == "" {
			t.Fatal("response has no request ID")
		}
		if seen != got {
			t.Errorf("context request ID = %q, header = %q", seen, got)
		}
	})

	t.Run("keeps a valid incoming ID", func(t *testing.T) {
		const incoming = "0b6a1c3e-5f2d-4a8b-9c7e-1d2f3a4b5c6d"
		req := makeRequest("GET", "/test", "")
		req.Header.Set(RequestIDHeader, incoming)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if got := rr.Header().Get(RequestIDHeader); got != incoming {
			t.Errorf("request ID = %q, want %q", got, incoming)
		}
		if seen != incoming {
			t.Errorf("context request ID = %q, want %q", seen, incoming)
		}
	})

	t.Run("replaces a malformed incoming ID", func(t *testing.T) {
		req := makeRequest("GET", "/test", "")
		req.Header.Set(RequestIDHeader, "<script>")

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if got := rr.Header().Get(RequestIDHeader); got == "<script>" || got == "" {
			t.Errorf("request ID = %q, want a generated one", got)
		}
	})
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	handler := CORSMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, makeRequest(http.MethodOptions, "/api/v1/locations", ""))

	if rr.Code != http.StatusNoContent {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if called {
		t.Error("preflight reached the wrapped handler")
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
		t.Errorf("Allow-Methods = %q", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, makeRequest("GET", "/test", ""))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rr.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("body = %s, want INTERNAL_ERROR", rr.Body.String())
	}
}

func TestChainMiddleware_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := ChainMiddleware(mark("first"), mark("second"))(okHandler())
	handler.ServeHTTP(httptest.NewRecorder(), makeRequest("GET", "/test", ""))

	if strings.Join(order, ",") != "first,second" {
		t.Errorf("order = %v, want [first second]", order)
	}
}

// =============================================================================
// HANDLER TESTS
// =============================================================================

func TestNewHandlers_InvalidLocation(t *testing.T) {
	cfg := testConfig()
	cfg.Locations = append(cfg.Locations, panchanga.Location{Name: "nowhere", Latitude: 95})

	if _, err := NewHandlers(fakeSource{}, cfg, quietLogger()); err == nil {
		t.Error("expected error for latitude 95")
	}
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t, fakeSource{}, testConfig())

	rr, resp := serve(t, router, makeRequest("GET", "/health", ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}

	var data map[string]string
	decodeData(t, resp, &data)
	if data["status"] != "healthy" || data["engine"] != ephemeris.EngineBuiltin {
		t.Errorf("data = %v", data)
	}
}

func TestHealthCheck_OracleDown(t *testing.T) {
	router := setupRouter(t, brokenSunrise{}, testConfig())

	rr, resp := serve(t, router, makeRequest("GET", "/health", ""))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	if resp.Error == nil || resp.Error.Code != CodeHealthCheckFailed {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestListLocations(t *testing.T) {
	router := setupRouter(t, fakeSource{}, testConfig())

	rr, resp := serve(t, router, makeRequest("GET", "/api/v1/locations", ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}

	var locs []LocationInfo
	decodeData(t, resp, &locs)
	if len(locs) != 2 {
		t.Fatalf("got %d locations, want 2", len(locs))
	}
	if locs[0].Name != "aligarh" || !locs[0].Default || locs[0].Zone != "UTC+05:30" {
		t.Errorf("locs[0] = %+v", locs[0])
	}
	if locs[1].Name != "London" || locs[1].Default {
		t.Errorf("locs[1] = %+v", locs[1])
	}
}

func TestGetDate(t *testing.T) {
	router := setupRouter(t, fakeSource{}, testConfig())

	rr, resp := serve(t, router, makeRequest("GET", "/api/v1/panchanga/date/2025-01-05", ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var rec panchanga.Record
	decodeData(t, resp, &rec)

	if rec.Date != "2025-01-05" || rec.Weekday != "Sunday" || rec.Location != "aligarh" {
		t.Errorf("record header = %s %s %s", rec.Date, rec.Weekday, rec.Location)
	}
	if rec.Sunrise == nil || *rec.Sunrise != "06:00:00" {
		t.Errorf("sunrise = %v, want 06:00:00", rec.Sunrise)
	}
	if rec.RahuKalam == nil || rec.RahuKalam.Start != "16:30:00" {
		t.Errorf("rahu kalam = %+v, want start 16:30:00", rec.RahuKalam)
	}
	if len(rec.Tithi) == 0 || rec.Tithi[0].Start != "06:00:00" {
		t.Errorf("tithi = %+v, want first interval from sunrise", rec.Tithi)
	}
	if len(rec.DayHoras) != 12 || len(rec.NightChogadiya) != 8 {
		t.Errorf("got %d day horas and %d night chogadiya", len(rec.DayHoras), len(rec.NightChogadiya))
	}
}

func TestGetDate_OtherLocation(t *testing.T) {
	router := setupRouter(t, fakeSource{}, testConfig())

	rr, resp := serve(t, router, makeRequest("GET", "/api/v1/panchanga/date/2025-01-05?location=london", ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}

	var rec panchanga.Record
	decodeData(t, resp, &rec)
	if rec.Location != "London" || rec.Zone != "UTC+00:00" {
		t.Errorf("location = %s zone = %s, want London UTC+00:00", rec.Location, rec.Zone)
	}
}

func TestGetDate_Errors(t *testing.T) {
	router := setupRouter(t, fakeSource{}, testConfig())

	tests := []struct {
		name string
		path string
		want int
		code string
	}{
		{"malformed date", "/api/v1/panchanga/date/2025-13-01", http.StatusBadRequest, CodeBadRequest},
		{"wrong layout", "/api/v1/panchanga/date/05-01-2025", http.StatusBadRequest, CodeBadRequest},
		{"before supported range", "/api/v1/panchanga/date/1700-01-01", http.StatusBadRequest, CodeBadRequest},
		{"unknown location", "/api/v1/panchanga/date/2025-01-05?location=atlantis", http.StatusNotFound, CodeNotFound},
		{"unknown route", "/api/v1/panchanga/week", http.StatusNotFound, CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, resp := serve(t, router, makeRequest("GET", tt.path, ""))
			if rr.Code != tt.want {
				t.Errorf("Status = %d, want %d", rr.Code, tt.want)
			}
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("response = %+v, want error code %s", resp, tt.code)
			}
		})
	}
}

func TestGetDate_OracleFailure(t *testing.T) {
	router := setupRouter(t, fakeSource{longitudeErr: errors.New("file not found")}, testConfig())

	rr, resp := serve(t, router, makeRequest("GET", "/api/v1/panchanga/date/2025-01-05", ""))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if resp.Error == nil || resp.Error.Code != CodeInternal {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestGetToday(t *testing.T) {
	router := setupRouter(t, fakeSource{}, testConfig())

	// now is 03:00 UTC on the 5th, 08:30 in Aligarh
	rr, resp := serve(t, router, makeRequest("GET", "/api/v1/panchanga/today", ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}

	var rec panchanga.Record
	decodeData(t, resp, &rec)
	if rec.Date != "2025-01-05" {
		t.Errorf("date = %s, want 2025-01-05", rec.Date)
	}
}

func TestGetRange(t *testing.T) {
	router := setupRouter(t, fakeSource{}, testConfig())

	rr, resp := serve(t, router, makeRequest("GET", "/api/v1/panchanga/range?start=2025-01-01&end=2025-01-03", ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var out RangeResponse
	decodeData(t, resp, &out)
	if len(out.Days) != 3 || len(out.Failed) != 0 {
		t.Fatalf("got %d days and %d failures, want 3 and 0", len(out.Days), len(out.Failed))
	}
	for i, want := range []string{"2025-01-01", "2025-01-02", "2025-01-03"} {
		if out.Days[i].Date != want {
			t.Errorf("days[%d] = %s, want %s", i, out.Days[i].Date, want)
		}
	}
}

func TestGetRange_Validation(t *testing.T) {
	router := setupRouter(t, fakeSource{}, testConfig())

	tests := []struct {
		name  string
		query string
	}{
		{"missing end", "start=2025-01-01"},
		{"bad start", "start=2025-1-1&end=2025-01-03"},
		{"bad end", "start=2025-01-01&end=tomorrow"},
		{"reversed", "start=2025-01-03&end=2025-01-01"},
		{"too long", "start=2025-01-01&end=2025-02-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, _ := serve(t, router, makeRequest("GET", "/api/v1/panchanga/range?"+tt.query, ""))
			if rr.Code != http.StatusBadRequest {
				t.Errorf("Status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}

	// 31 days inclusive is the limit
	rr, _ := serve(t, router, makeRequest("GET", "/api/v1/panchanga/range?start=2025-01-01&end=2025-01-31", ""))
	if rr.Code != http.StatusOK {
		t.Errorf("31 days: Status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestGetYear(t *testing.T) {
	router := setupRouter(t, fakeSource{}, testConfig())

	t.Run("requires API key", func(t *testing.T) {
		rr, resp := serve(t, router, makeRequest("GET", "/api/v1/panchanga/year/2025", ""))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("Status = %d, want %d", rr.Code, http.StatusUnauthorized)
		}
		if resp.Error == nil || resp.Error.Code != CodeUnauthorized {
			t.Errorf("error = %+v", resp.Error)
		}
	})

	t.Run("invalid year", func(t *testing.T) {
		rr, _ := serve(t, router, makeRequest("GET", "/api/v1/panchanga/year/twenty", testAPIKey))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		rr, _ := serve(t, router, makeRequest("GET", "/api/v1/panchanga/year/2300", testAPIKey))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("full year", func(t *testing.T) {
		if testing.Short() {
			t.Skip("computes 365 days")
		}
		rr, resp := serve(t, router, makeRequest("GET", "/api/v1/panchanga/year/2025", testAPIKey))
		if rr.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
		}

		var out RangeResponse
		decodeData(t, resp, &out)
		if out.Start != "2025-01-01" || out.End != "2025-12-31" {
			t.Errorf("bounds = %s..%s", out.Start, out.End)
		}
		if len(out.Days) != 365 {
			t.Errorf("got %d days, want 365", len(out.Days))
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = true
	router := setupRouter(t, fakeSource{}, cfg)

	// populate the day counters first
	serve(t, router, makeRequest("GET", "/api/v1/panchanga/date/2025-01-05", ""))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, makeRequest("GET", "/metrics", ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), "panchanga_days_computed_total") {
		t.Error("metrics output lacks panchanga_days_computed_total")
	}
}
