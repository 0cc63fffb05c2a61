package bikesharetraffic

import (
	"encoding/json"
	"net/http"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/utils"
)

type healthResponse struct {
	Status   string `json:"status"`
	System   string `json:"system"`
	Stations int    `json:"stations"`
	Trips    int    `json:"trips"`
	Rejected int    `json:"rejected"`
	Sessions int    `json:"sessions"`
	LoadedAt string `json:"loaded_at"`
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	d := s.registry.Data()
	resp := healthResponse{
		Status:   "ok",
		System:   d.System,
		Stations: len(d.Stations),
		Trips:    d.Index.Len(),
		Rejected: len(d.Index.Rejected()),
		Sessions: s.registry.Len(),
		LoadedAt: utils.Iso8601FromTime(d.LoadedAt),
	}
	_ = json.NewEncoder(w).Encode(resp)
}
