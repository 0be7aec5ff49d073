package preapproval

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ParseLeadsCSV reads a lead-export CSV and returns raw profiles ready for
// normalization. It maps the export columns (Name, Email, Income Range,
// Credit Range, ...) to RawProfile fields and deduplicates by email.
func ParseLeadsCSV(csvPath string) ([]RawProfile, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, eris.Wrap(err, "leads: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "leads: read csv")
	}
	if len(records) < 2 {
		return nil, eris.New("leads: csv has no data rows")
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.TrimSpace(col)] = i
	}

	requiredCols := []string{"Email", "Income Range", "Credit Range"}
	for _, col := range requiredCols {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("leads: missing required column %q", col)
		}
	}

	seen := make(map[string]bool)
	var profiles []RawProfile

	for _, row := range records[1:] {
		email := strings.ToLower(getCol(row, colIdx, "Email"))
		if email == "" {
			continue
		}
		if seen[email] {
			continue
		}
		seen[email] = true

		downPct := 0
		if v := getCol(row, colIdx, "Down Payment %"); v != "" {
			n, convErr := strconv.Atoi(strings.TrimSuffix(v, "%"))
			if convErr != nil {
				return nil, eris.Wrapf(ErrInvalidInput, "leads: bad down payment %q for %s", v, email)
			}
			downPct = n
		}

		profiles = append(profiles, RawProfile{
			Name:             getCol(row, colIdx, "Name"),
			Email:            email,
			Phone:            getCol(row, colIdx, "Phone"),
			IncomeRange:      getCol(row, colIdx, "Income Range"),
			CreditRange:      getCol(row, colIdx, "Credit Range"),
			MonthlyDebt:      getCol(row, colIdx, "Monthly Debt"),
			DownPaymentPct:   downPct,
			MilitaryVeteran:  parseBool(getCol(row, colIdx, "Military Veteran")),
			CurrentHomeOwner: parseBool(getCol(row, colIdx, "Current Homeowner")),
			PlansToSellHome:  parseBool(getCol(row, colIdx, "Selling Current Home")),
			PropertyType:     getCol(row, colIdx, "Property Type"),
			PropertyUsage:    getCol(row, colIdx, "Property Usage"),
			AvailableFunds:   getCol(row, colIdx, "Available Funds"),
		})
	}

	if len(profiles) == 0 {
		return nil, eris.New("leads: no valid leads found in csv")
	}
	return profiles, nil
}

// getCol safely retrieves a column value from a CSV row.
func getCol(row []string, colIdx map[string]int, col string) string {
	idx, ok := colIdx[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseBool accepts the yes/no spellings lead exports use.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "y", "1":
		return true
	}
	return false
}
