package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jonathan/lead-intel/internal/notify"
	"github.com/jonathan/lead-intel/internal/types"
)

const (
	maxLeadBodyBytes = 64 << 10
	notifyTimeout    = 30 * time.Second
)

// handleSubmitLead handles POST /leads: validate, score, save, alert.
func (s *Server) handleSubmitLead(w http.ResponseWriter, r *http.Request) {
	var data types.LeadFormData
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLeadBodyBytes)).Decode(&data); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := data.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	// A client that hangs up mid-call must not leave a fallback score on
	// an otherwise valid lead.
	ctx := context.WithoutCancel(r.Context())
	result := s.scorer.ScoreLead(ctx, data)

	s.storeMu.Lock()
	lead, err := s.store.SaveLead(ctx, data, result)
	s.storeMu.Unlock()
	if err != nil {
		log.Printf("[leads] Failed to save lead: %v", err)
		s.errorResponse(w, HTTPStatus(err), "failed to save lead")
		return
	}

	if notify.ShouldNotify(lead) {
		s.notifyAsync(lead)
	}

	s.jsonResponse(w, http.StatusCreated, lead)
}

// notifyAsync sends the alert in the background; failures are only logged.
func (s *Server) notifyAsync(lead types.PersistedLead) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyLead(ctx, lead); err != nil {
			log.Printf("[notify] Failed to send alert for lead %s: %v", lead.ID, err)
		}
	}()
}

// handleListLeads handles GET /leads?priority=ALL|HIGH|MEDIUM|LOW.
func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	priority, ok := types.ParsePriorityFilter(r.URL.Query().Get("priority"))
	if !ok {
		err := &ErrValidation{Field: "priority", Message: "must be one of ALL, HIGH, MEDIUM, LOW"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.storeMu.Lock()
	leads := s.store.FilterByPriority(r.Context(), priority)
	s.storeMu.Unlock()

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"leads": leads,
		"count": len(leads),
	})
}

// handleLeadStats handles GET /leads/stats.
func (s *Server) handleLeadStats(w http.ResponseWriter, r *http.Request) {
	s.storeMu.Lock()
	stats := s.store.Stats(r.Context())
	s.storeMu.Unlock()

	s.jsonResponse(w, http.StatusOK, stats)
}

// handleGetLead handles GET /leads/{id}.
func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.storeMu.Lock()
	lead, ok := s.store.GetLead(r.Context(), id)
	s.storeMu.Unlock()

	if !ok {
		err := &ErrLeadNotFound{ID: id}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, lead)
}

// handleDeleteLead handles DELETE /leads/{id}. Unknown ids are not an error.
func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.storeMu.Lock()
	err := s.store.DeleteLead(r.Context(), id)
	s.storeMu.Unlock()

	if err != nil {
		log.Printf("[leads] Failed to delete lead %s: %v", id, err)
		s.errorResponse(w, HTTPStatus(err), "failed to delete lead")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearLeads handles DELETE /leads.
func (s *Server) handleClearLeads(w http.ResponseWriter, r *http.Request) {
	s.storeMu.Lock()
	err := s.store.ClearLeads(r.Context())
	s.storeMu.Unlock()

	if err != nil {
		log.Printf("[leads] Failed to clear leads: %v", err)
		s.errorResponse(w, HTTPStatus(err), "failed to clear leads")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
