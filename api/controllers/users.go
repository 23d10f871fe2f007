package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moviemaestro/moviemaestro-backend/api/middleware"
	"github.com/moviemaestro/moviemaestro-backend/api/responses"
	"github.com/moviemaestro/moviemaestro-backend/api/validators"
	"github.com/moviemaestro/moviemaestro-backend/internal/users"
	pkgerrors "github.com/moviemaestro/moviemaestro-backend/pkg/errors"
	"github.com/moviemaestro/moviemaestro-backend/pkg/logger"
)

func userIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id").
			WithDetails(map[string]any{"id": raw})
	}
	return id, nil
}

// UsersRegister handles account creation.
func UsersRegister(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		var body users.RegisterInput
		if err := validators.DecodeJSONBodyLoose(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// UsersList returns every account. Admin only.
func UsersList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := svc.List(r.Context(), middleware.CallerFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, all)
	}
}

// UsersGet returns a single account for its owner or an admin.
func UsersGet(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), middleware.CallerFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// UsersUpdate applies a partial profile update.
func UsersUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body users.UpdateInput
		if err := validators.DecodeJSONBodyLoose(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), middleware.CallerFromContext(r.Context()), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// UsersDelete removes an account.
func UsersDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), middleware.CallerFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
