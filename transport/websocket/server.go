package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-arcade/pkg/handlers"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMessageSize  = 1024
	shutdownTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type uGame interface {
	NewSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)

	OnModeSelected(ctx context.Context, id string, mode entity.Mode) (*entity.Session, error)
	OnDifficultySelected(ctx context.Context, id string, difficulty entity.Difficulty) (*entity.Session, error)
	OnHumanMove(ctx context.Context, id string, cell int) (*usecase.MoveResult, error)

	OnRestart(ctx context.Context, id string) (*entity.Session, error)
	OnChangeMode(ctx context.Context, id string) (*entity.Session, error)
	OnResetScore(ctx context.Context, id string) (*entity.Session, error)
	OnToggleSound(ctx context.Context, id string) (*entity.Session, error)
}

type handlerFunc func(ctx context.Context, client *client, message *Message) (*Response, error)

type Server struct {
	logger *slog.Logger
	uGame  uGame

	computerDelay time.Duration
	validate      *validator.Validate

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uGame uGame, computerDelay time.Duration) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,

		computerDelay: computerDelay,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}

	server.handlers = map[string]handlerFunc{
		actionConnect:     server.handleConnect,
		actionMode:        server.handleMode,
		actionDifficulty:  server.handleDifficulty,
		actionTurn:        server.handleTurn,
		actionRestart:     server.sessionAction(uGame.OnRestart),
		actionChangeMode:  server.sessionAction(uGame.OnChangeMode),
		actionResetScore:  server.sessionAction(uGame.OnResetScore),
		actionToggleSound: server.sessionAction(uGame.OnToggleSound),
	}

	return server
}

func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", handlers.PingHandler)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// client - one connection, bound to a session after connect.
type client struct {
	conn      *websocket.Conn
	sessionID string
}

func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go that.keepAlive(connCtx, conn)

	if err = that.handleMessages(connCtx, &client{conn: conn}); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// keepAlive - pings the peer and closes the connection once ctx is done.
// WriteControl may run next to the reader's writes.
func (that *Server) keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, client *client) error {
	log := that.logger.With("method", "handleMessages")

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var message Message
		if err := client.conn.ReadJSON(&message); err != nil {
			if isDecodeError(err) {
				if err = that.send(client, &Response{Action: actionUnknownError, Error: "invalid message"}); err != nil {
					return err
				}

				continue
			}

			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Info("WebSocket connection closed", "session_id", client.sessionID)
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		response := that.dispatch(ctx, client, &message)
		if err := that.send(client, response); err != nil {
			return err
		}
	}
}

func (that *Server) dispatch(ctx context.Context, client *client, message *Message) *Response {
	log := that.logger.With("method", "dispatch", "action", message.Action)

	if err := that.validate.Struct(message); err != nil {
		return &Response{Action: actionUnknownError, Error: "action is required"}
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		return &Response{Action: message.Action, Error: "unknown action"}
	}

	response, err := handler(ctx, client, message)
	if err != nil {
		log.Warn("action failed", "session_id", client.sessionID, "error", err)
		return &Response{Action: message.Action, Error: err.Error()}
	}

	return response
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}

func (that *Server) send(client *client, response *Response) error {
	_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := client.conn.WriteJSON(response); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}
