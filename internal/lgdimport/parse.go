package lgdimport

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// Row is one logical line of the extracted village directory:
// district code/name, taluk (block) code/name, village code/name.
type Row struct {
	DistrictCode string
	DistrictName string
	TalukCode    string
	TalukName    string
	VillageCode  string
	VillageName  string
}

// The directory extraction yields fixed-position lines of the form
// <code> <DISTRICT> <code> <BLOCK> <code> <village...>. District and block
// names are uppercase in the source; the village name keeps its case.
var rowPattern = regexp.MustCompile(`^\s*(\d+)\s+([A-Z][A-Z \-.()]*?)\s+(\d+)\s+([A-Z][A-Z \-.()]*?)\s+(\d+)\s+(\S.*?)\s*$`)

// Header/footer phrases emitted by the extraction around each page.
var noisePhrases = []string{
	"LOCAL GOVERNMENT DIRECTORY",
	"GOVERNMENT OF INDIA",
	"MINISTRY OF PANCHAYATI RAJ",
	"DISTRICT CODE",
	"VILLAGE CODE",
	"VILLAGE NAME",
	"SUB-DISTRICT",
	"AS ON",
}

var pureDigits = regexp.MustCompile(`^\d+$`)

func isNoise(line string) bool {
	if line == "" {
		return true
	}
	if pureDigits.MatchString(line) {
		// Bare page numbers.
		return true
	}
	upper := strings.ToUpper(line)
	if strings.HasPrefix(upper, "PAGE ") {
		return true
	}
	for _, p := range noisePhrases {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}

// Parse reads the extracted text stream and returns the data rows plus the
// count of lines that looked like data but did not match the expected shape.
// Malformed lines are never fatal.
func Parse(r io.Reader) ([]Row, int) {
	var rows []Row
	malformed := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if isNoise(line) {
			continue
		}
		m := rowPattern.FindStringSubmatch(line)
		if m == nil {
			malformed++
			continue
		}
		rows = append(rows, Row{
			DistrictCode: m[1],
			DistrictName: strings.TrimSpace(m[2]),
			TalukCode:    m[3],
			TalukName:    strings.TrimSpace(m[4]),
			VillageCode:  m[5],
			VillageName:  strings.TrimSpace(m[6]),
		})
	}
	return rows, malformed
}
