package api

import (
	"net/http"

	"github.com/asset-disposition/internal/service"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// Duration override request bodies. Each endpoint carries its own field name
// so a client can never write the wrong column by accident; JSON decoding
// rejects fractional months because the fields are integers.

type fcDurationOverrideRequest struct {
	Months *int `json:"fc_duration_override_months"`
}

type reoDurationOverrideRequest struct {
	Months *int `json:"reo_fc_duration_override_months"`
}

type renovationDurationOverrideRequest struct {
	Months *int `json:"renovation_duration_override_months"`
}

type marketingDurationOverrideRequest struct {
	Months *int `json:"marketing_duration_override_months"`
}

type acquisitionPriceRequest struct {
	Price *decimal.Decimal `json:"acquisition_price"`
}

// overrideResponse acknowledges a saved override
type overrideResponse struct {
	AssetID string `json:"asset_id"`
	Status  string `json:"status"`
}

// handleSetFCDurationOverride saves the foreclosure duration delta used by
// the FC-sale strategy.
// POST /api/assets/{id}/fc-duration-override
func (s *Server) handleSetFCDurationOverride(w http.ResponseWriter, r *http.Request) {
	var req fcDurationOverrideRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body: "+err.Error(), nil)
		return
	}
	if req.Months == nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "fc_duration_override_months is required", nil)
		return
	}

	s.saveDurationOverride(w, r, service.FieldFCDuration, *req.Months)
}

// handleSetREODurationOverride saves the foreclosure duration delta used by
// the REO strategy.
// POST /api/assets/{id}/reo-duration-override
func (s *Server) handleSetREODurationOverride(w http.ResponseWriter, r *http.Request) {
	var req reoDurationOverrideRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body: "+err.Error(), nil)
		return
	}
	if req.Months == nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "reo_fc_duration_override_months is required", nil)
		return
	}

	s.saveDurationOverride(w, r, service.FieldREOFCDuration, *req.Months)
}

// handleSetRenovationDurationOverride saves the renovation duration delta.
// POST /api/assets/{id}/renovation-duration-override
func (s *Server) handleSetRenovationDurationOverride(w http.ResponseWriter, r *http.Request) {
	var req renovationDurationOverrideRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body: "+err.Error(), nil)
		return
	}
	if req.Months == nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "renovation_duration_override_months is required", nil)
		return
	}

	s.saveDurationOverride(w, r, service.FieldRenovationDuration, *req.Months)
}

// handleSetMarketingDurationOverride saves the marketing duration delta.
// POST /api/assets/{id}/marketing-duration-override
func (s *Server) handleSetMarketingDurationOverride(w http.ResponseWriter, r *http.Request) {
	var req marketingDurationOverrideRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body: "+err.Error(), nil)
		return
	}
	if req.Months == nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "marketing_duration_override_months is required", nil)
		return
	}

	s.saveDurationOverride(w, r, service.FieldMarketingDuration, *req.Months)
}

func (s *Server) saveDurationOverride(w http.ResponseWriter, r *http.Request, field service.DurationField, months int) {
	assetID := mux.Vars(r)["id"]

	if err := s.modelService.SetDurationOverride(r.Context(), assetID, field, months); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, overrideResponse{AssetID: assetID, Status: "saved"})
}

// handleSetAcquisitionPrice saves the explicit acquisition price for an asset.
// POST /api/assets/{id}/acquisition-price
func (s *Server) handleSetAcquisitionPrice(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["id"]

	var req acquisitionPriceRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body: "+err.Error(), nil)
		return
	}
	if req.Price == nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "acquisition_price is required", nil)
		return
	}

	if err := s.modelService.SetAcquisitionPrice(r.Context(), assetID, *req.Price); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, overrideResponse{AssetID: assetID, Status: "saved"})
}
