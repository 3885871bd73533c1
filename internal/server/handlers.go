package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/protek/protek/internal/utils"
	"github.com/protek/protek/pkg/filter"
	"github.com/protek/protek/pkg/standards"
	"github.com/protek/protek/pkg/syncer"
)

type StandardsResponse struct {
	Standards        []standards.Standard `json:"standards"`
	FilteredCount    int                  `json:"filteredCount"`
	TotalVisible     int                  `json:"totalVisible"`
	NewCount         int                  `json:"newCount"`
	PercentNew       int                  `json:"percentNew"`
	HasActiveFilters bool                 `json:"hasActiveFilters"`
	ViewMode         filter.ViewMode      `json:"viewMode"`
}

type FacetsResponse struct {
	CategoryCounts map[string]int           `json:"categoryCounts"`
	ImpactCounts   map[standards.Impact]int `json:"impactCounts"`
	Categories     []string                 `json:"categories"`
	Tags           []string                 `json:"tags"`
	RecommendedBy  []string                 `json:"recommendedBy"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// view derives a fresh View for the predicates in the request's query string.
func (s *Server) view(r *http.Request) (filter.View, error) {
	st, err := queryFromValues(r.URL.Query()).State()
	if err != nil {
		return filter.View{}, err
	}
	return filter.Derive(s.Store.Records(), st, filter.Options{
		NewStandardsDays: s.Config.NewStandardsDays,
		Now:              s.Now(),
	}), nil
}

func queryFromValues(q url.Values) filter.Query {
	return filter.Query{
		Search:        q.Get("search"),
		Impacts:       q["impact"],
		Categories:    q["category"],
		Tags:          q["tag"],
		RecommendedBy: q["recommended_by"],
		Deprecated:    q.Get("deprecated") == "true",
		NewOnly:       q.Get("new") == "true",
		View:          q.Get("view"),
	}
}

func (s *Server) handleStandards(w http.ResponseWriter, r *http.Request) {
	v, err := s.view(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, StandardsResponse{
		Standards:        v.Standards,
		FilteredCount:    v.FilteredCount(),
		TotalVisible:     v.TotalVisible,
		NewCount:         v.NewCount,
		PercentNew:       v.PercentNew,
		HasActiveFilters: v.HasActiveFilters,
		ViewMode:         v.ViewMode,
	})
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	v, err := s.view(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, FacetsResponse{
		CategoryCounts: v.CategoryCounts,
		ImpactCounts:   v.ImpactCounts,
		Categories:     v.Categories,
		Tags:           v.Tags,
		RecommendedBy:  v.RecommendedBy,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Config)
}

func (s *Server) handleSyncState(w http.ResponseWriter, r *http.Request) {
	if s.Syncer == nil {
		writeJSON(w, http.StatusOK, syncer.State{})
		return
	}
	writeJSON(w, http.StatusOK, s.Syncer.State())
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if s.Syncer == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "sync is not configured"})
		return
	}
	err := s.Syncer.Sync(r.Context())
	switch {
	case errors.Is(err, syncer.ErrSyncInProgress):
		writeJSON(w, http.StatusConflict, s.Syncer.State())
	case err != nil:
		utils.Log.Warnf("Sync requested over HTTP failed: %v", err)
		writeJSON(w, http.StatusBadGateway, s.Syncer.State())
	default:
		writeJSON(w, http.StatusOK, s.Syncer.State())
	}
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	if s.Changes == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	changes, err := s.Changes.ListRecentChanges(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, changes)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
