package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/zapponejosh/julian/internal/calendar"
	"github.com/zapponejosh/julian/internal/format"
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

// ConversionResponse is the subset of a conversion result checked here.
type ConversionResponse struct {
	Calendar     string `json:"calendar"`
	Julian       string `json:"julian"`
	JulianMoment struct {
		DayNumber int `json:"day_number"`
	} `json:"julian_moment"`
}

// TestResult holds the result for a single day
type TestResult struct {
	DayNumber int    `json:"day_number"`
	Date      string `json:"date"`
	Year      int    `json:"year"`
	Regime    string `json:"regime"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// RegimeStats tracks statistics for each calendar regime
type RegimeStats struct {
	Regime      string   `json:"regime"`
	TotalDays   int      `json:"total_days"`
	SuccessDays int      `json:"success_days"`
	FailedDays  int      `json:"failed_days"`
	FailedDates []string `json:"failed_dates,omitempty"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	startYear := flag.Int("start", 1581, "Start year")
	years := flag.Int("years", 4, "Number of years to test")
	verbose := flag.Bool("v", false, "Verbose output (show each date)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1

	first, err := dayNumber(*startYear, 1, 1)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}
	last, err := dayNumber(endYear, 12, 31)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	fmt.Println("================================================================")
	fmt.Println("Julian API - Round Trip Coverage Test")
	fmt.Println("================================================================")
	fmt.Printf("Base URL:    %s\n", *baseURL)
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31 (JDN %d-%d)\n", *startYear, endYear, first, last)
	fmt.Printf("Total Years: %d\n", *years)
	fmt.Println()

	// Check if server is reachable
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	results := testAllDays(client, *baseURL, first, last, *verbose)
	analysis := analyzeResults(results)

	printSummary(analysis)
	printFailures(analysis)

	if *outputFile != "" {
		saveResults(*outputFile, analysis)
	}

	// Exit with error code if there were failures
	if analysis.TotalFailed > 0 {
		os.Exit(1)
	}
}

func dayNumber(year, month, day int) (int, error) {
	m, err := calendar.FromCivil(year, month, day)
	if err != nil {
		return 0, err
	}
	jm, err := calendar.ToJulianMoment(m)
	if err != nil {
		return 0, err
	}
	return jm.DayNumber, nil
}

func testAllDays(client *http.Client, baseURL string, first, last int, verbose bool) []TestResult {
	totalDays := last - first + 1
	fmt.Printf("Testing %d days...\n\n", totalDays)

	var results []TestResult
	failed := 0
	lastProgress := -1

	for jdn := first; jdn <= last; jdn++ {
		result := testDay(client, baseURL, jdn)
		results = append(results, result)
		if !result.Success {
			failed++
		}

		// Show progress
		tested := jdn - first + 1
		progress := (tested * 100) / totalDays
		if progress != lastProgress && progress%5 == 0 {
			fmt.Printf("  Progress: %d%% (%d/%d) - Failures: %d\n", progress, tested, totalDays, failed)
			lastProgress = progress
		}

		if verbose {
			status := "✓"
			if !result.Success {
				status = "✗"
			}
			fmt.Printf("  %s %d: %s [%s]\n", status, jdn, result.Date, result.Regime)
			if !result.Success {
				fmt.Printf("      Error: %s\n", result.Error)
			}
		}
	}

	fmt.Println()
	return results
}

// testDay converts jdn locally, then checks that the API maps the date to jdn
// and jdn back to the date.
func testDay(client *http.Client, baseURL string, jdn int) TestResult {
	result := TestResult{DayNumber: jdn, Regime: "Gregorian"}
	if jdn < calendar.GregReform {
		result.Regime = "Julian"
	}

	m, err := calendar.FromJulianMoment(calendar.JulianMoment{DayNumber: jdn})
	if err != nil {
		result.Error = fmt.Sprintf("Local conversion: %v", err)
		return result
	}
	result.Year = m.Year
	if result.Date, err = format.Calendar(m, format.Options{}); err != nil {
		result.Error = fmt.Sprintf("Local format: %v", err)
		return result
	}

	fromDate, err := get(client, fmt.Sprintf("%s/api/v1/date/%s", baseURL, result.Date))
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if fromDate.JulianMoment.DayNumber != jdn {
		result.Error = fmt.Sprintf("date/%s returned JDN %d", result.Date, fromDate.JulianMoment.DayNumber)
		return result
	}

	fromJulian, err := get(client, fmt.Sprintf("%s/api/v1/jd/%d", baseURL, jdn))
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if fromJulian.Calendar != result.Date {
		result.Error = fmt.Sprintf("jd/%d returned %s", jdn, fromJulian.Calendar)
		return result
	}

	result.Success = true
	return result
}

func get(client *http.Client, url string) (*ConversionResponse, error) {
	resp, err := client.Get(url)
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

	var data ConversionResponse
	if err := json.Unmarshal(apiResp.Data, &data); err != nil {
		return nil, fmt.Errorf("Data parse error: %v", err)
	}
	return &data, nil
}

// Analysis holds the analyzed results
type Analysis struct {
	TotalDays    int                     `json:"total_days"`
	TotalSuccess int                     `json:"total_success"`
	TotalFailed  int                     `json:"total_failed"`
	ByRegime     map[string]*RegimeStats `json:"by_regime"`
	ByYear       map[int]*YearStats      `json:"by_year"`
	AllFailures  []TestResult            `json:"failures"`
}

type YearStats struct {
	Year        int `json:"year"`
	TotalDays   int `json:"total_days"`
	SuccessDays int `json:"success_days"`
	FailedDays  int `json:"failed_days"`
}

func analyzeResults(results []TestResult) *Analysis {
	analysis := &Analysis{
		ByRegime: make(map[string]*RegimeStats),
		ByYear:   make(map[int]*YearStats),
	}

	for _, r := range results {
		analysis.TotalDays++

		if _, ok := analysis.ByYear[r.Year]; !ok {
			analysis.ByYear[r.Year] = &YearStats{Year: r.Year}
		}
		analysis.ByYear[r.Year].TotalDays++

		if _, ok := analysis.ByRegime[r.Regime]; !ok {
			analysis.ByRegime[r.Regime] = &RegimeStats{Regime: r.Regime}
		}
		analysis.ByRegime[r.Regime].TotalDays++

		if r.Success {
			analysis.TotalSuccess++
			analysis.ByYear[r.Year].SuccessDays++
			analysis.ByRegime[r.Regime].SuccessDays++
		} else {
			analysis.TotalFailed++
			analysis.ByYear[r.Year].FailedDays++
			analysis.ByRegime[r.Regime].FailedDays++
			analysis.ByRegime[r.Regime].FailedDates = append(analysis.ByRegime[r.Regime].FailedDates, r.Date)
			analysis.AllFailures = append(analysis.AllFailures, r)
		}
	}

	return analysis
}

func printSummary(analysis *Analysis) {
	fmt.Println("================================================================")
	fmt.Println("SUMMARY")
	fmt.Println("================================================================")
	fmt.Printf("Total Days Tested: %d\n", analysis.TotalDays)
	fmt.Printf("Successful:        %d (%.1f%%)\n", analysis.TotalSuccess,
		float64(analysis.TotalSuccess)/float64(analysis.TotalDays)*100)
	fmt.Printf("Failed:            %d (%.1f%%)\n", analysis.TotalFailed,
		float64(analysis.TotalFailed)/float64(analysis.TotalDays)*100)
	fmt.Println()

	// By year; 1582 is ten days short
	years := make([]int, 0, len(analysis.ByYear))
	for year := range analysis.ByYear {
		years = append(years, year)
	}
	sort.Ints(years)

	fmt.Println("By Year:")
	for _, year := range years {
		stats := analysis.ByYear[year]
		status := "✓"
		if stats.FailedDays > 0 {
			status = "✗"
		}
		fmt.Printf("  %s %d: %d/%d days\n", status, year, stats.SuccessDays, stats.TotalDays)
	}
	fmt.Println()

	fmt.Println("By Regime:")
	for _, regime := range []string{"Julian", "Gregorian"} {
		if stats, ok := analysis.ByRegime[regime]; ok {
			fmt.Printf("  %-10s %d/%d days\n", regime+":", stats.SuccessDays, stats.TotalDays)
		}
	}
	fmt.Println()
}

func printFailures(analysis *Analysis) {
	if analysis.TotalFailed == 0 {
		fmt.Println("No failures! 🎉")
		return
	}

	fmt.Println("================================================================")
	fmt.Println("FAILURES (JDN | Date | Error)")
	fmt.Println("================================================================")

	for i, f := range analysis.AllFailures {
		if i >= 50 {
			fmt.Printf("  ... and %d more\n", analysis.TotalFailed-50)
			break
		}
		fmt.Printf("  %d | %s | %s\n", f.DayNumber, f.Date, f.Error)
	}
	fmt.Println()
}

func saveResults(filename string, analysis *Analysis) {
	output := struct {
		GeneratedAt string    `json:"generated_at"`
		Analysis    *Analysis `json:"analysis"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Analysis:    analysis,
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
