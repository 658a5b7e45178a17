package platform

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/metriclab/platformkit/pkg/directory"
)

type createOrgRequest struct {
	Name string `json:"name"`
}

type orgResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func toOrgResponse(org *directory.Org) orgResponse {
	return orgResponse{ID: org.ID, Name: org.Name, Active: org.Active}
}

func handleCreateOrg(orgs *directory.OrgRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrgRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" {
			respondError(w, http.StatusBadRequest, "name is required")
			return
		}

		org, err := orgs.Create(r.Context(), directory.CreateOrgInput{Name: req.Name})
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, toOrgResponse(org))
	}
}

func handleGetOrg(orgs *directory.OrgRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, err := orgs.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, toOrgResponse(org))
	}
}

func handleDeleteOrg(orgs *directory.OrgRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := orgs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
