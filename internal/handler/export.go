package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
)

// csvHeaders defines the column names written as the first row of a trip export.
var csvHeaders = []string{
	"trip_id", "destination", "start_date", "end_date", "activity_count", "activities",
}

// ExportTrips handles GET /trips/export.
// Returns the signed-in user's trips. Use ?format=csv to receive CSV;
// default is JSON.
func (s *Server) ExportTrips(w http.ResponseWriter, r *http.Request) {
	trips := s.Trips.List()

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, trips)
	case "csv":
		body := buildCSV(trips)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="trips.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = body.WriteTo(w)
	default:
		badRequest(w, "format must be csv or json")
	}
}

// buildCSV encodes one trip per row. Activities within a row are
// pipe-separated ("|") to keep each trip on a single CSV line.
func buildCSV(trips []domain.Trip) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// bytes.Buffer.Write never returns an error.
	_ = w.Write(csvHeaders)
	for _, t := range trips {
		_ = w.Write(tripToCSVRecord(t))
	}
	w.Flush()
	return &buf
}

func tripToCSVRecord(t domain.Trip) []string {
	return []string{
		t.ID,
		t.Destination,
		t.StartDate,
		t.EndDate,
		strconv.Itoa(len(t.Activities)),
		strings.Join(t.Activities, "|"),
	}
}
