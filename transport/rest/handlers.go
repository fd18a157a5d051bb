package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
	"github.com/rocketscienceinc/rps-backend/internal/entity"
	"github.com/rocketscienceinc/rps-backend/transport/view"
)

const maxBodySize = 4 << 10

var errBadRequestBody = errors.New("request body is not valid JSON")

type createSessionRequest struct {
	Variant string `json:"variant"`
}

type playRequest struct {
	Choice string `json:"choice"`
}

type errorResponse struct {
	Error   string        `json:"error"`
	Session *view.Session `json:"session,omitempty"`
}

func (that *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req, true); err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	session, err := that.game.CreateSession(r.Context(), req.Variant)
	if err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	that.logger.Info("session created", "sessionID", session.ID, "variant", session.Variant)

	writeJSON(w, http.StatusCreated, view.NewSession(session, that.now()))
}

func (that *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.game.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, view.NewSession(session, that.now()))
}

func (that *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := decodeBody(r, &req, false); err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	session, err := that.game.Play(r.Context(), chi.URLParam(r, "sessionID"), req.Choice)
	that.writeSession(w, r, session, err)
}

func (that *Server) handlePlayGesture(w http.ResponseWriter, r *http.Request) {
	// the payload is read raw: a malformed one is a gesture failure, not a bad request
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		that.writeError(w, r, fmt.Errorf("failed to read body: %w", err), nil)
		return
	}

	session, err := that.game.PlayGesture(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "kind"), payload)
	that.writeSession(w, r, session, err)
}

func (that *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	session, err := that.game.Retry(r.Context(), chi.URLParam(r, "sessionID"))
	that.writeSession(w, r, session, err)
}

func (that *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	session, err := that.game.Reset(r.Context(), chi.URLParam(r, "sessionID"))
	that.writeSession(w, r, session, err)
}

func (that *Server) writeSession(w http.ResponseWriter, r *http.Request, session *entity.Session, err error) {
	if err != nil {
		that.writeError(w, r, err, session)
		return
	}

	writeJSON(w, http.StatusOK, view.NewSession(session, that.now()))
}

func (that *Server) writeError(w http.ResponseWriter, r *http.Request, err error, session *entity.Session) {
	log := that.logger.With("path", r.URL.Path)

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	} else {
		log.Info("request rejected", "status", status, "error", err)
	}

	resp := errorResponse{Error: messageFor(err, status)}
	if session != nil {
		resp.Session = view.NewSession(session, that.now())
	}

	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	// a dropped card with an unknown choice is a gesture failure
	case errors.Is(err, apperror.ErrMalformedGesture):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrInvalidChoice),
		errors.Is(err, apperror.ErrInvalidVariant),
		errors.Is(err, errBadRequestBody):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrRoundInProgress),
		errors.Is(err, apperror.ErrSessionFaulted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error, status int) string {
	switch {
	case status == http.StatusInternalServerError:
		return http.StatusText(status)
	case errors.Is(err, apperror.ErrMalformedGesture):
		return entity.FaultMessage
	default:
		return err.Error()
	}
}

// decodeBody - optional bodies may be empty.
func decodeBody(r *http.Request, dst any, optional bool) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(dst)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("%w: %w", errBadRequestBody, err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
