package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceHistory_QueryReachesServer(t *testing.T) {
	var gotPath, gotDays string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/attendance/history", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDays = r.URL.Query().Get("days")
		json.NewEncoder(w).Encode([]AttendanceRecord{
			{CheckInTime: "2026-08-29 07:02", CheckOutTime: "2026-08-29 08:15"},
		})
	})
	client, store := newAuthClient(t, mux)
	seedSession(t, store)

	records, err := client.AttendanceHistory(context.Background(), 14)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "/api/attendance/history", gotPath, "the query never bleeds into the path")
	assert.Equal(t, "14", gotDays)
}

func TestEndpoint(t *testing.T) {
	client, _ := newAuthClient(t, http.NewServeMux())
	base := client.BaseURL().String()

	assert.Equal(t, base+"/api/classes", client.endpoint("/api/classes"))
	assert.Equal(t, base+"/api/attendance/history?days=7", client.endpoint("/api/attendance/history?days=7"))
}
