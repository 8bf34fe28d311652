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

// ConversionResponse is the response for /now, /jd/{jd}, /date/{date} and
// /convert/{arg}
type ConversionResponse struct {
	Input    string `json:"input"`
	Kind     string `json:"kind"`
	Calendar string `json:"calendar"`
	Julian   string `json:"julian"`
	OldStyle string `json:"old_style"`
}

// Region is one entry of /regions
type Region struct {
	Code              string `json:"code"`
	Name              string `json:"name"`
	FirstGregorianJDN int    `json:"first_gregorian_jdn"`
	FirstGregorian    string `json:"first_gregorian"`
	LastJulian        string `json:"last_julian"`
}

// RegionsResponse is the response for /regions
type RegionsResponse struct {
	Regions []Region `json:"regions"`
	Count   int      `json:"count"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
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
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Julian API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	// Run test groups
	tr.testHealth()
	tr.testNow()
	tr.testConversions()
	tr.testOldStyle()
	tr.testRegions()
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
	if err := tr.parseDataAs(resp, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testNow() {
	tr.printSection("Current Time")

	resp, err := tr.get("/api/v1/now")
	if err != nil {
		tr.recordError("Now", err.Error())
		return
	}

	var data ConversionResponse
	if err := tr.parseDataAs(resp, &data); err != nil {
		tr.recordError("Now", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Now: %s = %s", data.Calendar, data.Julian))
}

func (tr *TestRunner) testConversions() {
	tr.printSection("Conversions")

	testCases := []struct {
		path        string
		calendar    string
		julian      string
		description string
	}{
		{"/api/v1/date/2000-01-01T12:00:00Z", "2000-01-01T12:00:00Z", "2451545.00000", "J2000.0"},
		{"/api/v1/date/1970-01-01T00:00:00Z", "1970-01-01T00:00:00Z", "2440587.50000", "Unix epoch"},
		{"/api/v1/date/-4712-01-01T12:00:00Z", "-4712-01-01T12:00:00Z", "0.00000", "Day zero"},
		{"/api/v1/date/1582-10-04", "1582-10-04", "2299160 ± 0.5", "Last Julian day"},
		{"/api/v1/date/1582-10-15", "1582-10-15", "2299161 ± 0.5", "First Gregorian day"},
		{"/api/v1/date/2024-366?yday=true", "2024-366", "2460676 ± 0.5", "Day-of-year input and output"},
		{"/api/v1/jd/2451545.25", "2000-01-01T18:00:00Z", "2451545.25000", "Fractional day"},
		{"/api/v1/jd/2451545:21600?integer_seconds=true", "2000-01-01T18:00:00Z", "2451545:21600", "Seconds since noon"},
		{"/api/v1/jd/0.5?places=1", "-4712-01-02T00:00:00Z", "0.5", "Midnight after day zero"},
		{"/api/v1/convert/2299161", "1582-10-15", "2299161 ± 0.5", "Generic conversion"},
	}

	for _, tc := range testCases {
		resp, err := tr.get(tc.path)
		if err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}

		var data ConversionResponse
		if err := tr.parseDataAs(resp, &data); err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}

		if data.Calendar == tc.calendar && data.Julian == tc.julian {
			tr.recordSuccess(fmt.Sprintf("%s = %s (%s)", data.Calendar, data.Julian, tc.description))
		} else {
			tr.recordError(tc.path, fmt.Sprintf("Expected %s = %s, got %s = %s",
				tc.calendar, tc.julian, data.Calendar, data.Julian))
		}
	}
}

func (tr *TestRunner) testOldStyle() {
	tr.printSection("Old Style")

	testCases := []struct {
		path     string
		oldStyle string
	}{
		{"/api/v1/jd/2361221?old_style=reform", "O.S. 1752-09-02"},
		{"/api/v1/jd/2361222?old_style=reform", ""},
		{"/api/v1/jd/2451545?old_style=always", "O.S. 1999-12-19"},
		{"/api/v1/jd/2421638?region=ru", "O.S. 1918-01-31"},
	}

	for _, tc := range testCases {
		resp, err := tr.get(tc.path)
		if err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}

		var data ConversionResponse
		if err := tr.parseDataAs(resp, &data); err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}

		if data.OldStyle == tc.oldStyle {
			tr.recordSuccess(fmt.Sprintf("%s: %s [%s]", tc.path, data.Calendar, data.OldStyle))
		} else {
			tr.recordError(tc.path, fmt.Sprintf("Expected old style %q, got %q", tc.oldStyle, data.OldStyle))
		}
	}
}

func (tr *TestRunner) testRegions() {
	tr.printSection("Regions")

	resp, err := tr.get("/api/v1/regions")
	if err != nil {
		tr.recordError("Regions", err.Error())
		return
	}

	var data RegionsResponse
	if err := tr.parseDataAs(resp, &data); err != nil {
		tr.recordError("Regions", err.Error())
		return
	}

	if data.Count > 0 && data.Count == len(data.Regions) {
		tr.recordSuccess(fmt.Sprintf("Listed %d regions", data.Count))
	} else {
		tr.recordError("Regions", fmt.Sprintf("count %d, %d regions", data.Count, len(data.Regions)))
	}

	if tr.verbose {
		for _, r := range data.Regions {
			fmt.Printf("    %-12s %s (%s)\n", r.Code, r.FirstGregorian, r.LastJulian)
		}
		fmt.Println()
	}

	resp2, err := tr.get("/api/v1/regions/gb")
	if err != nil {
		tr.recordError("Region gb", err.Error())
		return
	}
	var gb Region
	if err := tr.parseDataAs(resp2, &gb); err != nil {
		tr.recordError("Region gb", err.Error())
		return
	}
	if gb.FirstGregorianJDN == 2361222 {
		tr.recordSuccess(fmt.Sprintf("gb: %s, last Julian %s", gb.FirstGregorian, gb.LastJulian))
	} else {
		tr.recordError("Region gb", fmt.Sprintf("Expected JDN 2361222, got %d", gb.FirstGregorianJDN))
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	testCases := []struct {
		path   string
		status int
		code   string
		desc   string
	}{
		{"/api/v1/date/invalid", http.StatusBadRequest, "INVALID_DATE", "Invalid date format rejected"},
		{"/api/v1/date/1582-10-10", http.StatusBadRequest, "REFORMATION_GAP", "Date in the Reformation gap rejected"},
		{"/api/v1/date/2023-02-29", http.StatusBadRequest, "INVALID_DATE", "February 29 of a common year rejected"},
		{"/api/v1/date/2451545", http.StatusBadRequest, "", "Julian date on the calendar endpoint rejected"},
		{"/api/v1/jd/2451545?places=12", http.StatusBadRequest, "", "Too many places rejected"},
		{"/api/v1/jd/2451545?region=nowhere", http.StatusNotFound, "", "Unknown region rejected"},
	}

	for _, tc := range testCases {
		resp, err := tr.getRaw(tc.path)
		if err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		var apiResp APIResponse
		_ = json.Unmarshal(body, &apiResp)

		switch {
		case resp.StatusCode != tc.status:
			tr.recordError(tc.path, fmt.Sprintf("Expected HTTP %d, got %d", tc.status, resp.StatusCode))
		case tc.code != "" && (apiResp.Error == nil || apiResp.Error.Code != tc.code):
			tr.recordError(tc.path, fmt.Sprintf("Expected error code %s", tc.code))
		default:
			tr.recordSuccess(tc.desc)
		}
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	resp, err := tr.getRaw(path)
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

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
}

func (tr *TestRunner) parseDataAs(resp *APIResponse, target interface{}) error {
	return json.Unmarshal(resp.Data, target)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
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
	verbose := flag.Bool("v", false, "Verbose output (list regions)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
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
