package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// getPathID parses a positive integer ID from the named chi path parameter.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, domain.NewValidationError(paramName, "is required", nil)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "must be a positive integer", err)
	}
	return id, nil
}

// requireActor returns the authenticated actor, writing a 401 when the
// request reached the handler without one.
func requireActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthenticated)
		return domain.Actor{}, false
	}
	return actor, true
}

// handleActorAndPathID extracts the actor and the {id} path parameter. It
// writes the error response and returns false when either is missing.
func handleActorAndPathID(w http.ResponseWriter, r *http.Request) (domain.Actor, int64, bool) {
	actor, ok := requireActor(w, r)
	if !ok {
		return domain.Actor{}, 0, false
	}
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return domain.Actor{}, 0, false
	}
	return actor, id, true
}

// decodeAndValidate decodes the JSON body into dst and runs its struct tag
// validation. It writes the error response and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := shared.DecodeJSON(r, dst); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	if err := shared.ValidateRequest(dst); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}
