package backfill

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{"source_table", "source_id", "StudentId", "Lat", "Lng", "CheckInUtc"}

// WriteCSV writes candidates with a header row; timestamps are RFC 3339 UTC.
func WriteCSV(w io.Writer, candidates []Candidate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, c := range candidates {
		record := []string{
			c.SourceTable,
			strconv.FormatInt(c.SourceID, 10),
			strconv.Itoa(c.StudentID),
			strconv.FormatFloat(c.Lat, 'f', -1, 64),
			strconv.FormatFloat(c.Lng, 'f', -1, 64),
			c.CheckInUtc.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
