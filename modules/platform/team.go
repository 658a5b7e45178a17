package platform

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/metriclab/platformkit/pkg/directory"
)

type createTeamRequest struct {
	Name string `json:"name"`
}

type teamResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func toTeamResponse(team *directory.Team) teamResponse {
	return teamResponse{ID: team.ID, Name: team.Name, Active: team.Active}
}

func handleCreateTeam(teams *directory.TeamRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTeamRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" {
			respondError(w, http.StatusBadRequest, "name is required")
			return
		}

		team, err := teams.Create(r.Context(), directory.CreateTeamInput{Name: req.Name})
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, toTeamResponse(team))
	}
}

func handleGetTeam(teams *directory.TeamRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		team, err := teams.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, toTeamResponse(team))
	}
}

func handleDeleteTeam(teams *directory.TeamRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := teams.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
