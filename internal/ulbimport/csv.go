package ulbimport

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/janmitra/locmaster/internal/masterdata"
)

// Row is one urban local body with its ward count. District is a hint only;
// the CSV source does not carry one, the scraped JSON source does.
type Row struct {
	Grade    string
	Name     string
	District string
	Wards    int
}

var requiredColumns = []string{"grade", "name of the ulb", "total no. of wards"}

// ParseCSV reads the ULB ward-count table. Required columns are matched
// case-insensitively by exact header text; a missing column is fatal,
// a malformed row is counted and skipped.
func ParseCSV(path string) ([]Row, int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("%w: %s", masterdata.ErrSourceMissing, path)
		}
		return nil, 0, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, 0, err
	}
	if len(records) < 2 {
		return nil, 0, fmt.Errorf("%s has no data rows", path)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := col[c]; !ok {
			return nil, 0, fmt.Errorf("%w: %q", masterdata.ErrMissingColumn, c)
		}
	}

	var out []Row
	malformed := 0
	for _, rec := range records[1:] {
		get := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		name := get("name of the ulb")
		wards, ok := parseWardCount(get("total no. of wards"))
		if name == "" || !ok {
			malformed++
			continue
		}
		out = append(out, Row{
			Grade: get("grade"),
			Name:  name,
			Wards: wards,
		})
	}
	return out, malformed, nil
}

// parseWardCount tolerates trailing text after the number ("30 wards").
func parseWardCount(s string) (int, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ParseWardJSON reads the alternate scraped source, a nested object of
// district -> ULB name -> ward count. The grade is carried in the ULB name
// suffix ("Madurai Corporation"). Rows come out in deterministic order.
func ParseWardJSON(path string) ([]Row, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", masterdata.ErrSourceMissing, path)
		}
		return nil, err
	}

	var nested map[string]map[string]int
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, fmt.Errorf("parse ward json %s: %w", path, err)
	}

	var out []Row
	for district, ulbs := range nested {
		for name, wards := range ulbs {
			if wards <= 0 {
				continue
			}
			out = append(out, Row{
				Grade:    gradeFromName(name),
				Name:     name,
				District: district,
				Wards:    wards,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].District != out[j].District {
			return out[i].District < out[j].District
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func gradeFromName(name string) string {
	upper := strings.ToUpper(name)
	switch {
	case strings.HasSuffix(upper, "CORPORATION"):
		return "Corporation"
	case strings.HasSuffix(upper, "MUNICIPALITY"):
		return "Municipality"
	case strings.HasSuffix(upper, "TOWN PANCHAYAT"):
		return "Town Panchayat"
	default:
		return ""
	}
}
