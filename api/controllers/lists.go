package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moviemaestro/moviemaestro-backend/api/middleware"
	"github.com/moviemaestro/moviemaestro-backend/api/responses"
	"github.com/moviemaestro/moviemaestro-backend/api/validators"
	"github.com/moviemaestro/moviemaestro-backend/internal/lists"
	"github.com/moviemaestro/moviemaestro-backend/pkg/logger"
)

// ListAdd appends a movie to the named list on the target account.
func ListAdd(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sel, err := lists.ParseSelector(chi.URLParam(r, "list"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body lists.EntryInput
		if err := validators.DecodeJSONBodyLoose(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Add(r.Context(), middleware.CallerFromContext(r.Context()), id, sel, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// ListRemove drops the movie with the given original title from the named list.
func ListRemove(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sel, err := lists.ParseSelector(chi.URLParam(r, "list"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body lists.RemoveInput
		if err := validators.DecodeJSONBodyLoose(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Remove(r.Context(), middleware.CallerFromContext(r.Context()), id, sel, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
