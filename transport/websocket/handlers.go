package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/transport/view"
)

var errNotConnected = errors.New("connect first")

// handleConnect - resumes the session named in the payload or starts a new one.
func (that *Server) handleConnect(ctx context.Context, client *client, message *Message) (*Response, error) {
	log := that.logger.With("method", "handleConnect")

	var payload connectPayload
	if err := that.decode(message, &payload); err != nil {
		return nil, err
	}

	if payload.SessionID != "" {
		session, err := that.uGame.GetSession(ctx, payload.SessionID)
		switch {
		case err == nil:
			client.sessionID = session.ID
			log.Info("session resumed", "session_id", session.ID)

			return that.sessionResponse(message.Action, session, nil)
		case !errors.Is(err, apperror.ErrSessionNotFound):
			return nil, fmt.Errorf("failed to get session: %w", err)
		}
	}

	session, err := that.uGame.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	client.sessionID = session.ID
	log.Info("session started", "session_id", session.ID)

	return that.sessionResponse(message.Action, session, nil)
}

func (that *Server) handleMode(ctx context.Context, client *client, message *Message) (*Response, error) {
	if client.sessionID == "" {
		return nil, errNotConnected
	}

	var payload modePayload
	if err := that.decode(message, &payload); err != nil {
		return nil, err
	}

	session, err := that.uGame.OnModeSelected(ctx, client.sessionID, entity.Mode(payload.Mode))

	return that.sessionResponse(message.Action, session, err)
}

func (that *Server) handleDifficulty(ctx context.Context, client *client, message *Message) (*Response, error) {
	if client.sessionID == "" {
		return nil, errNotConnected
	}

	var payload difficultyPayload
	if err := that.decode(message, &payload); err != nil {
		return nil, err
	}

	session, err := that.uGame.OnDifficultySelected(ctx, client.sessionID, entity.Difficulty(payload.Difficulty))

	return that.sessionResponse(message.Action, session, err)
}

// handleTurn - out-of-range cells reach the game manager and come back ignored.
func (that *Server) handleTurn(ctx context.Context, client *client, message *Message) (*Response, error) {
	if client.sessionID == "" {
		return nil, errNotConnected
	}

	var payload turnPayload
	if err := that.decode(message, &payload); err != nil {
		return nil, err
	}

	result, err := that.uGame.OnHumanMove(ctx, client.sessionID, *payload.Cell)
	if result == nil || result.Session == nil || view.StatusCode(err) != http.StatusOK {
		return nil, err
	}

	return &Response{
		Action:  message.Action,
		Session: view.FromMoveResult(result, that.computerDelay).WithIgnored(err),
	}, nil
}

// sessionAction - adapts a payload-less game manager event to a handler.
func (that *Server) sessionAction(event func(ctx context.Context, id string) (*entity.Session, error)) handlerFunc {
	return func(ctx context.Context, client *client, message *Message) (*Response, error) {
		if client.sessionID == "" {
			return nil, errNotConnected
		}

		session, err := event(ctx, client.sessionID)

		return that.sessionResponse(message.Action, session, err)
	}
}

func (that *Server) sessionResponse(action string, session *entity.Session, err error) (*Response, error) {
	if session == nil || view.StatusCode(err) != http.StatusOK {
		if err == nil {
			err = errors.New("empty session")
		}

		return nil, err
	}

	return &Response{
		Action:  action,
		Session: view.FromSession(session, that.computerDelay).WithIgnored(err),
	}, nil
}

func (that *Server) decode(message *Message, payload any) error {
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	if err := that.validate.Struct(payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	return nil
}
