package api

import (
	"net/http"

	"github.com/asset-disposition/internal/service"
	"github.com/asset-disposition/internal/types"
	"github.com/gorilla/mux"
)

// scenarioFromQuery reads the scenario query parameter, defaulting to as-is
func scenarioFromQuery(r *http.Request) types.Scenario {
	scenario := types.Scenario(r.URL.Query().Get("scenario"))
	if scenario == "" {
		return types.ScenarioAsIs
	}
	return scenario
}

// handleGetFCModel computes the foreclosure-sale model for one asset.
// GET /api/assets/{id}/fc-model?scenario=asis|arv
func (s *Server) handleGetFCModel(w http.ResponseWriter, r *http.Request) {
	s.handleGetModel(w, r, types.StrategyForeclosure)
}

// handleGetREOModel computes the REO model for one asset.
// GET /api/assets/{id}/reo-model?scenario=asis|arv
func (s *Server) handleGetREOModel(w http.ResponseWriter, r *http.Request) {
	s.handleGetModel(w, r, types.StrategyREO)
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request, strategy types.Strategy) {
	assetID := mux.Vars(r)["id"]

	result, err := s.modelService.GetModel(r.Context(), assetID, strategy, scenarioFromQuery(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// handleGetComparison computes both strategies side by side.
// GET /api/assets/{id}/model?scenario=asis|arv
func (s *Server) handleGetComparison(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["id"]

	result, err := s.modelService.GetComparison(r.Context(), assetID, scenarioFromQuery(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// handleRunPool computes the aggregated model for a pool of assets.
// POST /api/pools/model
func (s *Server) handleRunPool(w http.ResponseWriter, r *http.Request) {
	var input service.PoolInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body: "+err.Error(), nil)
		return
	}

	result, err := s.modelService.RunPool(r.Context(), &input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
