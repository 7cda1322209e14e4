// Command validate performs integrity checks over a produced crash dataset
// CSV: required columns, time and coordinate formats, count-column types,
// and row presence.
//
// Usage:
//
//	go run ./cmd/validate -csv plane_crashes_2000_2025.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"
)

var timeRe = regexp.MustCompile(`^\d{2}:\d{2}$`)

// requiredColumns must appear in every dataset header; the remaining columns
// depend on what the scraped pages contained.
var requiredColumns = []string{"Date", "Location", "Url"}

var countColumns = []string{
	"Aboard Total", "Aboard Passengers", "Aboard Crew",
	"Fatalities Total", "Fatalities Passengers", "Fatalities Crew",
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to a scraped dataset CSV")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath string) int {
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", csvPath, err)
		return 1
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", csvPath, err)
		return 1
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "dataset is empty")
		return 1
	}

	header := rows[0]
	records := rows[1:]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	phases := []*phase{
		checkHeader(col),
		checkRowCount(records),
		checkTimes(col, records),
		checkCoordinates(col, records),
		checkCounts(col, records),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	if failed > 0 {
		fmt.Printf("%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Printf("all %d phases passed (%d rows)\n", len(phases), len(records))
	return 0
}

func checkHeader(col map[string]int) *phase {
	p := &phase{name: "required columns"}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			p.errorf("missing column %q", name)
		}
	}
	return p
}

func checkRowCount(records [][]string) *phase {
	p := &phase{name: "row count"}
	if len(records) == 0 {
		p.errorf("no data rows")
	}
	return p
}

func checkTimes(col map[string]int, records [][]string) *phase {
	p := &phase{name: "time format"}
	i, ok := col["Time"]
	if !ok {
		return p
	}
	for n, row := range records {
		if v := row[i]; v != "" && !timeRe.MatchString(v) {
			p.errorf("row %d: time %q is not HH:MM", n+1, v)
		}
	}
	return p
}

func checkCoordinates(col map[string]int, records [][]string) *phase {
	p := &phase{name: "coordinate format"}
	for _, name := range []string{"Latitude", "Longitude"} {
		i, ok := col[name]
		if !ok {
			continue
		}
		for n, row := range records {
			v := row[i]
			if v == "" {
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				p.errorf("row %d: %s %q is not a float", n+1, name, v)
			}
		}
	}
	return p
}

func checkCounts(col map[string]int, records [][]string) *phase {
	p := &phase{name: "count columns"}
	for _, name := range countColumns {
		i, ok := col[name]
		if !ok {
			continue
		}
		for n, row := range records {
			v := row[i]
			if v == "" {
				continue
			}
			if _, err := strconv.Atoi(v); err != nil {
				p.errorf("row %d: %s %q is not an integer", n+1, name, v)
			}
		}
	}
	return p
}
