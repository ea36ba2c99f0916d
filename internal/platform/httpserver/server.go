package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	campaignservice "sampark/contexts/voter-outreach/campaign-service"
	campaignerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	campaignhttp "sampark/contexts/voter-outreach/campaign-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "sampark/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	campaigns campaignservice.Module
}

func New(campaigns campaignservice.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		campaigns: campaigns,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/v1/campaigns", s.handleCreateCampaign)
	s.mux.HandleFunc("GET /api/v1/campaigns", s.handleListCampaigns)
	s.mux.HandleFunc("GET /api/v1/campaigns/{campaign_id}", s.handleGetCampaign)
	s.mux.HandleFunc("PUT /api/v1/campaigns/{campaign_id}", s.handleUpdateCampaign)
	s.mux.HandleFunc("DELETE /api/v1/campaigns/{campaign_id}", s.handleDeleteCampaign)
	s.mux.HandleFunc("POST /api/v1/campaigns/{campaign_id}/duplicate", s.handleDuplicateCampaign)
	s.mux.HandleFunc("POST /api/v1/campaigns/{campaign_id}/send", s.handleSendCampaign)
	s.mux.HandleFunc("POST /api/v1/campaigns/{campaign_id}/stop", s.handleStopCampaign)
	s.mux.HandleFunc("GET /api/v1/campaigns/{campaign_id}/stats", s.handleCampaignStats)
	s.mux.HandleFunc("GET /api/v1/campaigns/{campaign_id}/messages", s.handleListMessages)
	s.mux.HandleFunc("POST /api/v1/audience/estimate", s.handleEstimateAudience)
	s.mux.HandleFunc("POST /api/v1/messages/{message_id}/delivery-report", s.handleDeliveryReport)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	var req campaignhttp.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.campaigns.Handler.CreateCampaignHandler(r.Context(), organizationID, req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	resp, err := s.campaigns.Handler.ListCampaignsHandler(
		r.Context(),
		organizationID,
		r.URL.Query().Get("status"),
		r.URL.Query().Get("channel"),
	)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.GetCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignhttp.UpdateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.campaigns.Handler.UpdateCampaignHandler(r.Context(), r.PathValue("campaign_id"), req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := s.campaigns.Handler.DeleteCampaignHandler(r.Context(), r.PathValue("campaign_id")); err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDuplicateCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.DuplicateCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSendCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.SendCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) handleStopCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.StopCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCampaignStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.GetCampaignStatsHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.ListMessagesHandler(
		r.Context(),
		r.PathValue("campaign_id"),
		r.URL.Query().Get("status"),
	)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEstimateAudience(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	var req campaignhttp.EstimateAudienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.campaigns.Handler.EstimateAudienceHandler(r.Context(), organizationID, req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeliveryReport(w http.ResponseWriter, r *http.Request) {
	var req campaignhttp.DeliveryReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.campaigns.Handler.DeliveryReportHandler(r.Context(), r.PathValue("message_id"), req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireOrganization(w http.ResponseWriter, r *http.Request) (string, bool) {
	organizationID := strings.TrimSpace(r.Header.Get("X-Organization-Id"))
	if organizationID == "" {
		writeCampaignError(w, http.StatusUnauthorized, "missing_organization", "X-Organization-Id header is required")
		return "", false
	}
	return organizationID, true
}

func writeCampaignDomainError(w http.ResponseWriter, err error) {
	var complianceErr *campaignerrors.ComplianceError
	switch {
	case errors.Is(err, campaignerrors.ErrCampaignNotFound),
		errors.Is(err, campaignerrors.ErrMessageNotFound):
		writeCampaignError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidCampaignInput),
		errors.Is(err, campaignerrors.ErrInvalidAudienceSpec):
		writeCampaignError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignNameTaken):
		writeCampaignError(w, http.StatusConflict, "name_taken", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignNotEditable),
		errors.Is(err, campaignerrors.ErrCampaignNotDeletable),
		errors.Is(err, campaignerrors.ErrInvalidStateTransition),
		errors.Is(err, campaignerrors.ErrInvalidMessageStatus):
		writeCampaignError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, campaignerrors.ErrEmptyAudience):
		writeCampaignError(w, http.StatusUnprocessableEntity, "empty_audience", err.Error())
	case errors.As(err, &complianceErr):
		writeCampaignError(w, http.StatusUnprocessableEntity, "compliance_failed", err.Error())
	default:
		writeCampaignError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCampaignError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, campaignhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
