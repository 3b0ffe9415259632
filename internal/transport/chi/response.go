package chi

import (
	"encoding/json"
	"net/http"

	domprofile "github.com/kailas-cloud/profilesearch/internal/domain/profile"
)

// listResponse is the search envelope. Results is always present.
type listResponse struct {
	Error   *string       `json:"error"`
	Results []profileJSON `json:"results"`
}

// itemResponse is the single-record envelope.
type itemResponse struct {
	Error  *string `json:"error"`
	Result any     `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type nameJSON struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

type profileJSON struct {
	ID               string   `json:"id"`
	UsrName          string   `json:"usrName"`
	Name             nameJSON `json:"name"`
	Country          string   `json:"country,omitempty"`
	FavoriteExercise string   `json:"favoriteExercise,omitempty"`
	Age              *int     `json:"age,omitempty"`
}

type availabilityJSON struct {
	UsrName   string `json:"usrName"`
	Available bool   `json:"available"`
}

func profileToJSON(p *domprofile.Profile) profileJSON {
	return profileJSON{
		ID:               p.ID(),
		UsrName:          p.UsrName(),
		Name:             nameJSON{First: p.First(), Last: p.Last()},
		Country:          p.Country(),
		FavoriteExercise: p.FavoriteExercise(),
		Age:              p.Age(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func strPtr(s string) *string { return &s }
