// graph-mock serves a tiny in-memory imitation of the Microsoft Graph
// workbook tables API (plus the token endpoint) for local development.
// Point the API at it with GRAPH_BASE_URL=http://localhost:8090 LOCAL_DEV=true.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"fieldops.service/internal/ports/store"
)

var workbook = store.NewMemory()

func seed() {
	workbook.Seed("Users",
		[]string{"Email", "Username", "Name", "EmployeeNo", "District", "Group", "SupervisorEmail", "Province", "Channel", "Role"},
		[][]string{
			{"ann@example.com", "ann", "Ann Field", "E001", "North", "Retail", "boss@example.com", "Chiangmai", "Modern Trade", "rep"},
			{"bee@example.com", "bee", "Bee Sales", "E002", "South", "Retail", "boss@example.com", "Phuket", "Modern Trade", "rep"},
		})
	workbook.Seed("CheckIns",
		[]string{"Timestamp", "Email", "Name", "EmployeeNo", "Location", "GPS", "Image", "Detail", "District", "Group", "Address"},
		[][]string{
			{"2025-06-16T03:00:00Z", "ann@example.com", "Ann Field", "E001", "Store1", "13.7563, 100.5018", "", "stock check", "North", "Retail", ""},
		})
	workbook.Seed("CheckOuts",
		[]string{"Timestamp", "Email", "Name", "EmployeeNo", "Location", "GPS", "Image", "Remark", "District", "Group", "Address", "Problem"},
		[][]string{
			{"2025-06-16T04:00:00Z", "ann@example.com", "Ann Field", "E001", "Store1", "13.7564, 100.5019", "", "done", "North", "Retail", "", ""},
		})
	workbook.Seed("Leaves",
		[]string{"Date", "Email", "Name", "EmployeeNo", "LeaveType", "Reason", "District", "Group"},
		[][]string{
			{"2025-06-17", "bee@example.com", "Bee Sales", "E002", "sick", "flu", "South", "Retail"},
		})
	workbook.Seed("Holidays", []string{"Date", "Name"}, [][]string{{"2025-06-03", "Queen's Birthday"}})
	workbook.Seed("WeeklyOff", []string{"Day"}, [][]string{{"Sunday"}})
	workbook.Seed("DayOffs", []string{"Email", "Date"}, [][]string{})
}

func tokenHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]any{
		"access_token": "mock-token",
		"expires_in":   3600,
	})
}

// tableFromPath extracts the table name from
// /drives/{d}/items/{i}/workbook/tables/{table}/...
func tableFromPath(path string) (table, rest string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		if p == "tables" && i+1 < len(parts) {
			return parts[i+1], strings.Join(parts[i+2:], "/"), true
		}
	}
	return "", "", false
}

func workbookHandler(w http.ResponseWriter, r *http.Request) {
	table, rest, ok := tableFromPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	ctx := context.Background()

	switch {
	case rest == "headerRowRange" && r.Method == http.MethodGet:
		headers, err := workbook.ListHeaders(ctx, table)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"values": [][]string{headers}})

	case rest == "rows" && r.Method == http.MethodGet:
		rows, err := workbook.ListRows(ctx, table)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		value := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			value = append(value, map[string]any{"values": [][]string{row}})
		}
		json.NewEncoder(w).Encode(map[string]any{"value": value})

	case rest == "rows/add" && r.Method == http.MethodPost:
		var body struct {
			Values [][]string `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Values) == 0 {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		for _, row := range body.Values {
			if err := workbook.AppendValues(ctx, table, row); err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
		}
		log.Printf("Appended %d row(s) to %s", len(body.Values), table)
		w.WriteHeader(http.StatusCreated)

	default:
		http.NotFound(w, r)
	}
}

func main() {
	seed()

	mux := http.NewServeMux()
	mux.HandleFunc("/drives/", workbookHandler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/oauth2/v2.0/token") {
			tokenHandler(w, r)
			return
		}
		http.NotFound(w, r)
	})

	log.Println("Graph workbook mock starting on port 8090...")
	log.Fatal(http.ListenAndServe(":8090", mux))
}
