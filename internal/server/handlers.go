package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rptrscope/rptrscope/internal/utils"
	"github.com/rptrscope/rptrscope/pkg/ingest"
	"github.com/rptrscope/rptrscope/pkg/repeater"
	"github.com/rptrscope/rptrscope/pkg/storage"
)

type repeatersResponse struct {
	Repeaters   []repeater.Record `json:"repeaters"`
	Count       int               `json:"count"`
	DataVersion string            `json:"data_version"`
	LastUpdated string            `json:"last_updated"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Log.Warnf("Failed to encode response: %v", err)
	}
}

func (s *Server) handleRepeaters(w http.ResponseWriter, r *http.Request) {
	records, schema, modified, err := s.Backend.LoadExport()
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "No data file found. Data will be available after the next scrape."})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	if band := strings.TrimSpace(r.URL.Query().Get("band")); band != "" {
		filtered := records[:0:0]
		for _, rec := range records {
			if strings.EqualFold(rec.Get(repeater.AttrBandName), band) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	if records == nil {
		records = []repeater.Record{}
	}

	writeJSON(w, http.StatusOK, repeatersResponse{
		Repeaters:   records,
		Count:       len(records),
		DataVersion: string(schema),
		LastUpdated: modified.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	err := s.Backend.StartIngestion(context.Background())
	if errors.Is(err, ingest.ErrRunInProgress) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]bool{"started": true})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Backend.Status())
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	path, ok := s.Backend.ExportFilePath()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "No data file found."})
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}
