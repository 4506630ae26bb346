package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/transport/view"
)

type modeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=pvp pvc"`
}

type difficultyRequest struct {
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

type moveRequest struct {
	Cell *int `json:"cell" validate:"required,min=0,max=8"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) createSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.uGame.NewSession(r.Context())
	if err != nil {
		that.writeError(w, "createSession", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, view.FromSession(session, that.computerDelay))
}

func (that *Server) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.uGame.GetSession(r.Context(), chi.URLParam(r, "id"))
	that.writeSession(w, "getSession", session, err)
}

func (that *Server) endSession(w http.ResponseWriter, r *http.Request) {
	if err := that.uGame.EndSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, "endSession", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) selectMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if !that.decode(w, r, &req) {
		return
	}

	session, err := that.uGame.OnModeSelected(r.Context(), chi.URLParam(r, "id"), entity.Mode(req.Mode))
	that.writeSession(w, "selectMode", session, err)
}

func (that *Server) selectDifficulty(w http.ResponseWriter, r *http.Request) {
	var req difficultyRequest
	if !that.decode(w, r, &req) {
		return
	}

	session, err := that.uGame.OnDifficultySelected(r.Context(), chi.URLParam(r, "id"), entity.Difficulty(req.Difficulty))
	that.writeSession(w, "selectDifficulty", session, err)
}

func (that *Server) makeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !that.decode(w, r, &req) {
		return
	}

	result, err := that.uGame.OnHumanMove(r.Context(), chi.URLParam(r, "id"), *req.Cell)
	if result == nil || result.Session == nil || view.StatusCode(err) != http.StatusOK {
		that.writeError(w, "makeMove", err)
		return
	}

	that.writeJSON(w, http.StatusOK, view.FromMoveResult(result, that.computerDelay).WithIgnored(err))
}

func (that *Server) restart(w http.ResponseWriter, r *http.Request) {
	session, err := that.uGame.OnRestart(r.Context(), chi.URLParam(r, "id"))
	that.writeSession(w, "restart", session, err)
}

func (that *Server) changeMode(w http.ResponseWriter, r *http.Request) {
	session, err := that.uGame.OnChangeMode(r.Context(), chi.URLParam(r, "id"))
	that.writeSession(w, "changeMode", session, err)
}

func (that *Server) resetScore(w http.ResponseWriter, r *http.Request) {
	session, err := that.uGame.OnResetScore(r.Context(), chi.URLParam(r, "id"))
	that.writeSession(w, "resetScore", session, err)
}

func (that *Server) toggleSound(w http.ResponseWriter, r *http.Request) {
	session, err := that.uGame.OnToggleSound(r.Context(), chi.URLParam(r, "id"))
	that.writeSession(w, "toggleSound", session, err)
}

// decode - reads and validates the body; on failure it has already answered 400.
func (that *Server) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<12)).Decode(req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}

	if err := that.validate.Struct(req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}

	return true
}

func (that *Server) writeSession(w http.ResponseWriter, method string, session *entity.Session, err error) {
	if session == nil || view.StatusCode(err) != http.StatusOK {
		that.writeError(w, method, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view.FromSession(session, that.computerDelay).WithIgnored(err))
}

func (that *Server) writeError(w http.ResponseWriter, method string, err error) {
	if err == nil {
		err = errors.New("empty session")
	}

	status := view.StatusCode(err)
	if status == http.StatusOK {
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
