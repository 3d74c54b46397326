package quiz

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// ExportCSV renders the final ranking as CSV with a header row.
func ExportCSV(results *Results) ([]byte, error) {
	rows := make([][]string, 0, len(results.Ranking)+1)
	rows = append(rows, []string{
		"Rank",
		"Name",
		"Color",
		"Score",
		"CorrectCount",
	})

	for _, line := range results.Ranking {
		rows = append(rows, []string{
			strconv.Itoa(line.Rank),
			line.Player.Name,
			line.Player.Color,
			strconv.Itoa(line.Player.Score),
			strconv.Itoa(line.Player.CorrectCount),
		})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
