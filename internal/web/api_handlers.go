package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/evcraddock/estateview/internal/browse"
	"github.com/evcraddock/estateview/internal/favorites"
	"github.com/evcraddock/estateview/internal/inquiry"
	"github.com/evcraddock/estateview/internal/listing"
	"github.com/evcraddock/estateview/internal/logging"
	"github.com/evcraddock/estateview/internal/prefs"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	apiJSON(w, map[string]string{"error": msg}, code)
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// apiFailure maps a core error to an HTTP response.
func apiFailure(w http.ResponseWriter, r *http.Request, err error) {
	var verr *inquiry.ValidationError
	switch {
	case errors.As(err, &verr):
		apiJSON(w, map[string]interface{}{"error": "validation failed", "fields": verr.Fields}, http.StatusBadRequest)
	case errors.Is(err, listing.ErrNotFound):
		apiError(w, "listing not found", http.StatusNotFound)
	case errors.Is(err, prefs.ErrUnknownFilter), errors.Is(err, prefs.ErrInvalidSort):
		apiError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, browse.ErrFetch):
		slog.Warn("listing fetch failed",
			"path", r.URL.Path,
			"error", err,
			"request_id", logging.RequestIDFrom(r.Context()),
		)
		apiJSON(w, map[string]interface{}{"error": browse.ErrFetch.Error(), "retryable": true}, http.StatusBadGateway)
	default:
		slog.Error("request failed",
			"path", r.URL.Path,
			"error", err,
			"request_id", logging.RequestIDFrom(r.Context()),
		)
		apiError(w, "internal error", http.StatusInternalServerError)
	}
}

// pathID parses the :id route parameter.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get(":id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type listingsResponse struct {
	Listings []listing.Listing   `json:"listings"`
	Count    int                 `json:"count"`
	Filters  listing.FilterState `json:"filters"`
	Sort     listing.SortKey     `json:"sort"`
}

type sortOption struct {
	Key   listing.SortKey `json:"key"`
	Label string          `json:"label"`
}

type preferencesResponse struct {
	Filters     listing.FilterState `json:"filters"`
	Sort        listing.SortKey     `json:"sort"`
	SortOptions []sortOption        `json:"sortOptions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// handleListListings browses with the persisted preferences, overlaid with
// any filter keys or sort given in the query string.
func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := s.prefs.Filters()
	for _, key := range listing.FilterKeys {
		if q.Has(string(key)) {
			if err := f.Set(key, q.Get(string(key))); err != nil {
				apiError(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
	}

	key, ok := s.sortParam(r)
	if !ok {
		apiError(w, "invalid sort", http.StatusBadRequest)
		return
	}

	listings, err := s.browse.Browse(r.Context(), f, key)
	if err != nil {
		apiFailure(w, r, err)
		return
	}

	apiJSON(w, listingsResponse{Listings: listings, Count: len(listings), Filters: f, Sort: key}, http.StatusOK)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		apiError(w, "invalid listing ID", http.StatusBadRequest)
		return
	}

	d, err := s.browse.Detail(r.Context(), id)
	if err != nil {
		apiFailure(w, r, err)
		return
	}

	apiJSON(w, d, http.StatusOK)
}

func (s *Server) handleListInquiries(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		apiError(w, "invalid listing ID", http.StatusBadRequest)
		return
	}

	if _, err := s.browse.Detail(r.Context(), id); err != nil {
		apiFailure(w, r, err)
		return
	}

	inquiries, err := s.inquiries.ListByListingID(r.Context(), id)
	if err != nil {
		apiFailure(w, r, err)
		return
	}

	apiJSON(w, inquiries, http.StatusOK)
}

// handleAddInquiry records a contact request. A blank message is replaced
// with the listing's default message.
func (s *Server) handleAddInquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		apiError(w, "invalid listing ID", http.StatusBadRequest)
		return
	}

	var in inquiry.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	d, err := s.browse.Detail(r.Context(), id)
	if err != nil {
		apiFailure(w, r, err)
		return
	}
	if strings.TrimSpace(in.Message) == "" {
		in.Message = inquiry.DefaultMessage(d.Listing)
	}

	q, err := s.inquiries.Add(r.Context(), id, in)
	if err != nil {
		apiFailure(w, r, err)
		return
	}

	apiJSON(w, q, http.StatusCreated)
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	key, ok := s.sortParam(r)
	if !ok {
		apiError(w, "invalid sort", http.StatusBadRequest)
		return
	}

	listings, err := s.browse.Saved(r.Context(), key)
	if err != nil {
		apiFailure(w, r, err)
		return
	}

	type response struct {
		Listings  []listing.Listing `json:"listings"`
		Count     int               `json:"count"`
		Sort      listing.SortKey   `json:"sort"`
		Favorites []favorites.Entry `json:"favorites"`
	}
	apiJSON(w, response{
		Listings:  listings,
		Count:     len(listings),
		Sort:      key,
		Favorites: s.favorites.Entries(),
	}, http.StatusOK)
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		apiError(w, "invalid listing ID", http.StatusBadRequest)
		return
	}

	added, err := s.favorites.Add(r.Context(), id)
	if err != nil {
		apiFailure(w, r, err)
		return
	}

	apiJSON(w, map[string]interface{}{"id": id, "favorite": true, "added": added}, http.StatusOK)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		apiError(w, "invalid listing ID", http.StatusBadRequest)
		return
	}

	removed, err := s.favorites.Remove(r.Context(), id)
	if err != nil {
		apiFailure(w, r, err)
		return
	}

	apiJSON(w, map[string]interface{}{"id": id, "favorite": false, "removed": removed}, http.StatusOK)
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, s.preferences(), http.StatusOK)
}

func (s *Server) handleUpdateFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := s.prefs.UpdateFilter(r.Context(), req.Key, req.Value); err != nil {
		apiFailure(w, r, err)
		return
	}

	apiJSON(w, s.preferences(), http.StatusOK)
}

func (s *Server) handleClearFilters(w http.ResponseWriter, r *http.Request) {
	if err := s.prefs.ClearFilters(r.Context()); err != nil {
		apiFailure(w, r, err)
		return
	}

	apiJSON(w, s.preferences(), http.StatusOK)
}

func (s *Server) handleSetSort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sort string `json:"sort"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := s.prefs.SetSort(r.Context(), req.Sort); err != nil {
		apiFailure(w, r, err)
		return
	}

	apiJSON(w, s.preferences(), http.StatusOK)
}

// sortParam returns the sort from the query string, or the persisted sort
// when absent. It reports false for an unknown value.
func (s *Server) sortParam(r *http.Request) (listing.SortKey, bool) {
	v := r.URL.Query().Get("sort")
	if v == "" {
		return s.prefs.Sort(), true
	}
	return listing.ParseSortKey(v)
}

func (s *Server) preferences() preferencesResponse {
	opts := make([]sortOption, len(listing.SortKeys))
	for i, k := range listing.SortKeys {
		opts[i] = sortOption{Key: k, Label: k.Label()}
	}
	return preferencesResponse{Filters: s.prefs.Filters(), Sort: s.prefs.Sort(), SortOptions: opts}
}
