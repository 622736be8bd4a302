package ticketing

import (
	"encoding/json"
	"net/http"
)

// MockServerHandler replicates the live municipal incidents endpoint for
// local development: it accepts the CreateNewIncident method and returns a
// fixed success body. Like the real SharePoint handler it serves JSON under
// a text/html content type.
func MockServerHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Query().Get("method") != "CreateNewIncident" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Unsupported method"})
			return
		}

		body := Response{
			ResultCode:       200,
			ErrorDescription: "CreateIncident ==> DoCreate => SUCCESS!!!",
			ResultStatus:     "SUCCESS CREATE",
			ResultData: ResponseData{
				IncidentGUID:   "e1ec2e3c-4063-f011-bec2-7c1e52885535",
				IncidentNumber: "116717",
			},
			Data: "116717",
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(body)
	})
}
