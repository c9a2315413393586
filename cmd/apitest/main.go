package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// DayRecord is the response for /panchanga/date/{date} and /panchanga/today
type DayRecord struct {
	Date      string     `json:"date"`
	Weekday   string     `json:"weekday"`
	Location  string     `json:"location"`
	Zone      string     `json:"zone"`
	Sunrise   *string    `json:"sunrise"`
	Sunset    *string    `json:"sunset"`
	Moonrise  *string    `json:"moonrise"`
	Moonset   *string    `json:"moonset"`
	Tithi     []Interval `json:"tithi"`
	Nakshatra []Interval `json:"nakshatra"`
	Yoga      []Interval `json:"yoga"`
	Karana    []Interval `json:"karana"`
	SunSign   string     `json:"sun_sign"`
	RahuKalam *Interval  `json:"rahu_kalam"`
	Abhijit   *Interval  `json:"abhijit"`
	DayHoras  []Interval `json:"day_horas"`
	Skipped   []string   `json:"skipped"`
}

type Interval struct {
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// RangeResponse is the response for /panchanga/range
type RangeResponse struct {
	Location string      `json:"location"`
	Start    string      `json:"start"`
	End      string      `json:"end"`
	Days     []DayRecord `json:"days"`
	Failed   []struct {
		Date  string `json:"date"`
		Error string `json:"error"`
	} `json:"failed"`
}

type LocationInfo struct {
	Name    string `json:"name"`
	Zone    string `json:"zone"`
	Default bool   `json:"default"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status       string `json:"status"`
	Engine       string `json:"engine"`
	SiderealMode string `json:"sidereal_mode"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Panchanga API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	// Run test groups
	tr.testHealth()
	tr.testLocations()
	tr.testToday()
	tr.testSpecificDates()
	tr.testDateRange()
	tr.testEdgeCases()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthResponse
	if err := json.Unmarshal(resp.Data, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (%s, %s)", health.Engine, health.SiderealMode))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testLocations() {
	tr.printSection("Locations")

	resp, err := tr.get("/api/v1/locations")
	if err != nil {
		tr.recordError("Locations", err.Error())
		return
	}

	var locs []LocationInfo
	if err := json.Unmarshal(resp.Data, &locs); err != nil {
		tr.recordError("Locations", err.Error())
		return
	}

	defaults := 0
	for _, loc := range locs {
		if loc.Default {
			defaults++
		}
		tr.recordSuccess(fmt.Sprintf("%s (%s)", loc.Name, loc.Zone))
	}
	if defaults != 1 {
		tr.recordError("Locations", fmt.Sprintf("Expected exactly one default, got %d", defaults))
	}
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	resp, err := tr.get("/api/v1/panchanga/today")
	if err != nil {
		tr.recordError("Today", err.Error())
		return
	}

	var day DayRecord
	if err := json.Unmarshal(resp.Data, &day); err != nil {
		tr.recordError("Today", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Today is %s %s at %s", day.Weekday, day.Date, day.Location))
	if tr.verbose {
		tr.printDayDetail(&day)
	}
}

func (tr *TestRunner) testSpecificDates() {
	tr.printSection("Specific Date Tests")

	testCases := []struct {
		date            string
		expectedWeekday string
		description     string
	}{
		{"2025-01-01", "Wednesday", "New Year's Day 2025"},
		{"2025-01-05", "Sunday", "First Sunday of 2025"},
		{"2024-02-29", "Thursday", "Leap day"},
		{"2025-03-20", "Thursday", "March equinox"},
		{"2025-06-21", "Saturday", "June solstice"},
		{"2025-12-21", "Sunday", "December solstice"},
	}

	for _, tc := range testCases {
		day, err := tr.getDay(tc.date)
		if err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		if day.Weekday != tc.expectedWeekday {
			tr.recordError(tc.date, fmt.Sprintf("Expected weekday '%s', got '%s'", tc.expectedWeekday, day.Weekday))
			continue
		}
		if msg := checkRecord(day); msg != "" {
			tr.recordError(tc.date, msg)
			continue
		}

		tithi := "(skipped)"
		if len(day.Tithi) > 0 {
			tithi = day.Tithi[0].Label
		}
		tr.recordSuccess(fmt.Sprintf("%s: %s, %s (%s)", tc.date, day.Weekday, tithi, tc.description))

		if tr.verbose {
			tr.printDayDetail(day)
		}
	}
}

func (tr *TestRunner) testDateRange() {
	tr.printSection("Date Range Tests")

	// Test a week range
	resp, err := tr.get("/api/v1/panchanga/range?start=2025-12-21&end=2025-12-27")
	if err != nil {
		tr.recordError("Range (week)", err.Error())
		return
	}

	var rangeData RangeResponse
	if err := json.Unmarshal(resp.Data, &rangeData); err != nil {
		tr.recordError("Range (week)", err.Error())
		return
	}

	if len(rangeData.Days) == 7 && len(rangeData.Failed) == 0 {
		tr.recordSuccess(fmt.Sprintf("Week range returned %d days", len(rangeData.Days)))
	} else {
		tr.recordError("Range (week)", fmt.Sprintf("Expected 7 days, got %d (%d failed)", len(rangeData.Days), len(rangeData.Failed)))
	}

	// Test range limit (should reject > 31 days)
	if tr.statusOf("/api/v1/panchanga/range?start=2025-01-01&end=2025-12-31") == http.StatusBadRequest {
		tr.recordSuccess("Range limit enforced (>31 days rejected)")
	} else {
		tr.recordError("Range limit", "Should reject ranges > 31 days")
	}

	// Test invalid range (end before start)
	if tr.statusOf("/api/v1/panchanga/range?start=2025-12-31&end=2025-01-01") == http.StatusBadRequest {
		tr.recordSuccess("Invalid range rejected (end before start)")
	} else {
		tr.recordError("Invalid range", "Should reject end < start")
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	cases := []struct {
		path   string
		status int
		name   string
	}{
		{"/api/v1/panchanga/date/invalid", http.StatusBadRequest, "Invalid date format rejected"},
		{"/api/v1/panchanga/date/2025/12/25", http.StatusNotFound, "Wrong date format rejected"},
		{"/api/v1/panchanga/range?start=2025-01-01", http.StatusBadRequest, "Missing end parameter rejected"},
		{"/api/v1/panchanga/date/1700-01-01", http.StatusBadRequest, "Date before supported range rejected"},
		{"/api/v1/panchanga/date/2025-01-01?location=atlantis", http.StatusNotFound, "Unknown location rejected"},
	}
	for _, c := range cases {
		if got := tr.statusOf(c.path); got == c.status {
			tr.recordSuccess(c.name)
		} else {
			tr.recordError(c.path, fmt.Sprintf("Expected status %d, got %d", c.status, got))
		}
	}

	// Polar winter: the Sun does not rise, the day degrades instead of failing
	day, err := tr.getDay("2025-12-21?location=tromso")
	switch {
	case err != nil && strings.Contains(err.Error(), "Unknown location"):
		tr.recordSuccess("Polar check skipped (no tromso preset)")
	case err != nil:
		tr.recordError("Polar night", err.Error())
	case day.Sunrise == nil && len(day.Skipped) > 0:
		tr.recordSuccess(fmt.Sprintf("Polar night degrades (skipped %v)", day.Skipped))
	default:
		tr.recordError("Polar night", "Expected no sunrise and skipped components")
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

// checkRecord verifies the fixed-count components of a day with a sunrise
// and sunset.
func checkRecord(day *DayRecord) string {
	if day.Sunrise == nil || day.Sunset == nil {
		return ""
	}
	if len(day.Tithi) == 0 || day.Tithi[0].Start != *day.Sunrise {
		return "tithi does not start at sunrise"
	}
	if len(day.DayHoras) != 12 {
		return fmt.Sprintf("expected 12 day horas, got %d", len(day.DayHoras))
	}
	if day.RahuKalam == nil {
		return "missing rahu kalam"
	}
	return ""
}

func (tr *TestRunner) getDay(dateAndQuery string) (*DayRecord, error) {
	resp, err := tr.get("/api/v1/panchanga/date/" + dateAndQuery)
	if err != nil {
		return nil, err
	}
	var day DayRecord
	if err := json.Unmarshal(resp.Data, &day); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return &day, nil
}

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	resp, err := tr.client.Get(tr.baseURL + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}

	return &apiResp, nil
}

// statusOf returns the status code of a GET, or 0 when the request fails.
func (tr *TestRunner) statusOf(path string) int {
	resp, err := tr.client.Get(tr.baseURL + path)
	if err != nil {
		return 0
	}
	resp.Body.Close()
	return resp.StatusCode
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printDayDetail(d *DayRecord) {
	if d == nil {
		return
	}
	orNone := func(s *string) string {
		if s == nil {
			return "none"
		}
		return *s
	}
	fmt.Printf("    Sun:  rise %s, set %s (%s)\n", orNone(d.Sunrise), orNone(d.Sunset), d.SunSign)
	fmt.Printf("    Moon: rise %s, set %s\n", orNone(d.Moonrise), orNone(d.Moonset))
	for _, c := range []struct {
		name string
		ivs  []Interval
	}{
		{"Tithi", d.Tithi},
		{"Nakshatra", d.Nakshatra},
		{"Yoga", d.Yoga},
		{"Karana", d.Karana},
	} {
		labels := make([]string, 0, len(c.ivs))
		for _, iv := range c.ivs {
			labels = append(labels, fmt.Sprintf("%s until %s", iv.Label, iv.End))
		}
		fmt.Printf("    %s: %s\n", c.name, strings.Join(labels, "; "))
	}
	if d.RahuKalam != nil {
		fmt.Printf("    Rahu Kalam: %s-%s\n", d.RahuKalam.Start, d.RahuKalam.End)
	}
	if d.Abhijit != nil {
		fmt.Printf("    Abhijit: %s-%s\n", d.Abhijit.Start, d.Abhijit.End)
	}
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show day details)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
