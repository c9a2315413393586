// Command coverage walks whole years through a running Panchanga API and
// checks every returned day for gaps, overlaps and missing components.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"time"
)

// APIResponse matches the API response structure
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type RangeResponse struct {
	Location string      `json:"location"`
	Days     []DayRecord `json:"days"`
	Failed   []Failure   `json:"failed"`
}

type Failure struct {
	Date  string `json:"date"`
	Error string `json:"error"`
}

type Interval struct {
	Label     string    `json:"label"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type DayRecord struct {
	Date           string     `json:"date"`
	Sunrise        *string    `json:"sunrise"`
	Sunset         *string    `json:"sunset"`
	Tithi          []Interval `json:"tithi"`
	Nakshatra      []Interval `json:"nakshatra"`
	Yoga           []Interval `json:"yoga"`
	Karana         []Interval `json:"karana"`
	MoonSign       []Interval `json:"moon_sign"`
	DayHoras       []Interval `json:"day_horas"`
	NightHoras     []Interval `json:"night_horas"`
	DayChogadiya   []Interval `json:"day_chogadiya"`
	NightChogadiya []Interval `json:"night_chogadiya"`
	Skipped        []string   `json:"skipped"`
}

// TestResult holds the result for a single date
type TestResult struct {
	Date    string `json:"date"`
	Success bool   `json:"success"`
	Check   string `json:"check,omitempty"`
	Error   string `json:"error,omitempty"`
	Skipped int    `json:"skipped"`
}

// CheckStats tracks failures for each kind of check
type CheckStats struct {
	Check       string   `json:"check"`
	FailedDays  int      `json:"failed_days"`
	FailedDates []string `json:"failed_dates"`
}

// maxGap is the widest gap allowed between adjacent cycle intervals.
const maxGap = time.Second + time.Millisecond

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	location := flag.String("location", "", "Location preset (default location when empty)")
	startYear := flag.Int("start", 2024, "Start year")
	years := flag.Int("years", 4, "Number of years to test")
	verbose := flag.Bool("v", false, "Verbose output (show each date)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Panchanga API - Full Coverage Test")
	fmt.Println("================================================================")
	fmt.Printf("Base URL:    %s\n", *baseURL)
	fmt.Printf("Location:    %s\n", displayLocation(*location))
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31\n", *startYear, endYear)
	fmt.Printf("Total Years: %d\n", *years)
	fmt.Println()

	// Check if server is reachable
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	// Test all dates, one month per request
	results := testAllMonths(client, *baseURL, *location, *startYear, endYear, *verbose)

	// Analyze results
	analysis := analyzeResults(results)

	printSummary(analysis, *startYear, endYear)
	printFailuresByCheck(analysis)

	if *outputFile != "" {
		saveResults(*outputFile, analysis)
	}

	// Exit with error code if there were failures
	if analysis.TotalFailed > 0 {
		os.Exit(1)
	}
}

func displayLocation(name string) string {
	if name == "" {
		return "(default)"
	}
	return name
}

func testAllMonths(client *http.Client, baseURL, location string, startYear, endYear int, verbose bool) []TestResult {
	var results []TestResult

	totalMonths := (endYear - startYear + 1) * 12
	tested := 0

	for year := startYear; year <= endYear; year++ {
		for month := time.January; month <= time.December; month++ {
			first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
			last := first.AddDate(0, 1, -1)

			monthResults := testRange(client, baseURL, location, first, last)
			results = append(results, monthResults...)

			tested++
			if tested%6 == 0 {
				fmt.Printf("  Progress: %d%% (%s)\n", tested*100/totalMonths, first.Format("2006-01"))
			}

			if verbose {
				for _, r := range monthResults {
					status := "✓"
					if !r.Success {
						status = "✗"
					}
					fmt.Printf("  %s %s", status, r.Date)
					if !r.Success {
						fmt.Printf(" [%s] %s", r.Check, r.Error)
					}
					fmt.Println()
				}
			}
		}
	}

	fmt.Println()
	return results
}

// testRange fetches first..last and checks every day it returns. A request
// that fails outright marks every date in the span failed.
func testRange(client *http.Client, baseURL, location string, first, last time.Time) []TestResult {
	q := url.Values{}
	q.Set("start", first.Format("2006-01-02"))
	q.Set("end", last.Format("2006-01-02"))
	if location != "" {
		q.Set("location", location)
	}

	data, err := fetch(client, baseURL+"/api/v1/panchanga/range?"+q.Encode())
	if err != nil {
		var out []TestResult
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			out = append(out, TestResult{Date: d.Format("2006-01-02"), Check: "request", Error: err.Error()})
		}
		return out
	}

	var rng RangeResponse
	if err := json.Unmarshal(data, &rng); err != nil {
		return []TestResult{{Date: first.Format("2006-01-02"), Check: "request", Error: fmt.Sprintf("Data parse error: %v", err)}}
	}

	var out []TestResult
	for _, f := range rng.Failed {
		out = append(out, TestResult{Date: f.Date, Check: "compute", Error: f.Error})
	}
	for _, day := range rng.Days {
		out = append(out, checkDay(day))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func fetch(client *http.Client, u string) (json.RawMessage, error) {
	resp, err := client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("Connection error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("Read error: %v", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("Parse error: %v", err)
	}
	if !apiResp.Success {
		errMsg := "Unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("%s", errMsg)
	}
	return apiResp.Data, nil
}

// checkDay applies the structural checks to one record. Components the
// engine reported as skipped are not checked.
func checkDay(day DayRecord) TestResult {
	result := TestResult{Date: day.Date, Skipped: len(day.Skipped)}

	fail := func(check, format string, args ...any) TestResult {
		result.Check = check
		result.Error = fmt.Sprintf(format, args...)
		return result
	}

	skipped := make(map[string]bool, len(day.Skipped))
	for _, s := range day.Skipped {
		skipped[s] = true
	}
	if day.Sunrise == nil && len(day.Skipped) == 0 {
		return fail("sunrise", "no sunrise and nothing skipped")
	}

	if !skipped["cycles"] {
		cycles := []struct {
			name string
			ivs  []Interval
		}{
			{"tithi", day.Tithi},
			{"nakshatra", day.Nakshatra},
			{"yoga", day.Yoga},
			{"karana", day.Karana},
		}
		for _, c := range cycles {
			if len(c.ivs) == 0 {
				return fail(c.name, "no intervals")
			}
			if msg := contiguity(c.ivs); msg != "" {
				return fail(c.name, "%s", msg)
			}
		}

		// all cycles share the sunrise to sunrise window
		start, end := day.Tithi[0].StartTime, day.Tithi[len(day.Tithi)-1].EndTime
		for _, c := range cycles[1:] {
			first, last := c.ivs[0], c.ivs[len(c.ivs)-1]
			if !first.StartTime.Equal(start) || !last.EndTime.Equal(end) {
				return fail(c.name, "window %s..%s differs from tithi window %s..%s",
					first.StartTime.Format(time.TimeOnly), last.EndTime.Format(time.TimeOnly),
					start.Format(time.TimeOnly), end.Format(time.TimeOnly))
			}
		}
	}

	if !skipped["moon_sign"] && len(day.MoonSign) > 0 {
		if msg := contiguity(day.MoonSign); msg != "" {
			return fail("moon_sign", "%s", msg)
		}
	}

	if !skipped["day_periods"] {
		if len(day.DayHoras) != 12 {
			return fail("day_horas", "got %d, want 12", len(day.DayHoras))
		}
		if len(day.DayChogadiya) != 8 {
			return fail("day_chogadiya", "got %d, want 8", len(day.DayChogadiya))
		}
		horas := day.DayHoras
		if !skipped["night_horas"] {
			horas = append(horas[:len(horas):len(horas)], day.NightHoras...)
		}
		if msg := contiguity(horas); msg != "" {
			return fail("horas", "%s", msg)
		}
	}

	result.Success = true
	return result
}

// contiguity reports the first gap, overlap or repeated label in ivs.
func contiguity(ivs []Interval) string {
	for i, iv := range ivs {
		if !iv.EndTime.After(iv.StartTime) {
			return fmt.Sprintf("%s is empty", iv.Label)
		}
		if i == 0 {
			continue
		}
		gap := iv.StartTime.Sub(ivs[i-1].EndTime)
		if gap < 0 {
			return fmt.Sprintf("%s overlaps %s by %s", iv.Label, ivs[i-1].Label, -gap)
		}
		if gap > maxGap {
			return fmt.Sprintf("gap of %s before %s", gap, iv.Label)
		}
	}
	return ""
}

// Analysis holds the analyzed results
type Analysis struct {
	TotalDays    int
	TotalSuccess int
	TotalFailed  int
	TotalSkipped int
	ByCheck      map[string]*CheckStats
	ByYear       map[int]*YearStats
	AllFailures  []TestResult
}

type YearStats struct {
	Year        int
	TotalDays   int
	SuccessDays int
	FailedDays  int
}

func analyzeResults(results []TestResult) *Analysis {
	analysis := &Analysis{
		ByCheck: make(map[string]*CheckStats),
		ByYear:  make(map[int]*YearStats),
	}

	for _, r := range results {
		analysis.TotalDays++
		analysis.TotalSkipped += r.Skipped

		date, _ := time.Parse("2006-01-02", r.Date)
		year := date.Year()
		if _, ok := analysis.ByYear[year]; !ok {
			analysis.ByYear[year] = &YearStats{Year: year}
		}
		analysis.ByYear[year].TotalDays++

		if r.Success {
			analysis.TotalSuccess++
			analysis.ByYear[year].SuccessDays++
			continue
		}

		analysis.TotalFailed++
		analysis.ByYear[year].FailedDays++
		if _, ok := analysis.ByCheck[r.Check]; !ok {
			analysis.ByCheck[r.Check] = &CheckStats{Check: r.Check}
		}
		analysis.ByCheck[r.Check].FailedDays++
		analysis.ByCheck[r.Check].FailedDates = append(analysis.ByCheck[r.Check].FailedDates, r.Date)
		analysis.AllFailures = append(analysis.AllFailures, r)
	}

	return analysis
}

func printSummary(analysis *Analysis, startYear, endYear int) {
	fmt.Println("================================================================")
	fmt.Println("SUMMARY")
	fmt.Println("================================================================")
	fmt.Printf("Total Days Tested:   %d\n", analysis.TotalDays)
	if analysis.TotalDays == 0 {
		fmt.Println()
		return
	}
	fmt.Printf("Successful:          %d (%.1f%%)\n", analysis.TotalSuccess,
		float64(analysis.TotalSuccess)/float64(analysis.TotalDays)*100)
	fmt.Printf("Failed:              %d (%.1f%%)\n", analysis.TotalFailed,
		float64(analysis.TotalFailed)/float64(analysis.TotalDays)*100)
	fmt.Printf("Skipped components:  %d\n", analysis.TotalSkipped)
	fmt.Println()

	fmt.Println("By Year:")
	for year := startYear; year <= endYear; year++ {
		if stats, ok := analysis.ByYear[year]; ok {
			status := "✓"
			if stats.FailedDays > 0 {
				status = "✗"
			}
			fmt.Printf("  %s %d: %d/%d days (%.1f%% success)\n",
				status, year, stats.SuccessDays, stats.TotalDays,
				float64(stats.SuccessDays)/float64(stats.TotalDays)*100)
		}
	}
	fmt.Println()
}

func printFailuresByCheck(analysis *Analysis) {
	if analysis.TotalFailed == 0 {
		fmt.Println("No failures!")
		return
	}

	fmt.Println("================================================================")
	fmt.Println("FAILURES BY CHECK")
	fmt.Println("================================================================")

	// Sort checks by failure count
	var checks []*CheckStats
	for _, stats := range analysis.ByCheck {
		checks = append(checks, stats)
	}
	sort.Slice(checks, func(i, j int) bool {
		return checks[i].FailedDays > checks[j].FailedDays
	})

	for _, stats := range checks {
		fmt.Printf("\n%s: %d failures\n", stats.Check, stats.FailedDays)
		shown := 0
		for _, f := range analysis.AllFailures {
			if f.Check != stats.Check {
				continue
			}
			// Show up to 5 example dates
			if shown >= 5 {
				fmt.Printf("  ... and %d more\n", stats.FailedDays-5)
				break
			}
			fmt.Printf("  - %s: %s\n", f.Date, f.Error)
			shown++
		}
	}
	fmt.Println()
}

func saveResults(filename string, analysis *Analysis) {
	output := struct {
		GeneratedAt string                 `json:"generated_at"`
		Summary     map[string]any         `json:"summary"`
		ByCheck     map[string]*CheckStats `json:"by_check"`
		Failures    []TestResult           `json:"failures"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Summary: map[string]any{
			"total_days":    analysis.TotalDays,
			"total_success": analysis.TotalSuccess,
			"total_failed":  analysis.TotalFailed,
			"total_skipped": analysis.TotalSkipped,
		},
		ByCheck:  analysis.ByCheck,
		Failures: analysis.AllFailures,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		return
	}

	fmt.Printf("Results saved to: %s\n", filename)
}
