package ws

import (
	"fmt"
	"math"
	"net/http"
	"sync"

	"github.com/HanasakaAlice/tefuda-oogiri/internal/config"
	"github.com/HanasakaAlice/tefuda-oogiri/internal/game"
	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"
)

type ConnCtx struct {
	PlayerID int // 0 until the socket joins
}

// Server is the socket.io front of the session. It owns the socket table and
// doubles as the session's Notifier.
type Server struct {
	sess   *game.Session
	config config.Config

	mu    sync.RWMutex
	conns map[string]socketio.Conn // socketID -> Conn
}

type joinPayload struct {
	Name string `json:"name"`
}

type startPayload struct {
	Mode string `json:"mode"`
}

type draftPayload struct {
	ChoiceIndex any `json:"choiceIndex"`
}

type handPayload struct {
	Answers any `json:"answers"`
}

type playPayload struct {
	CardIndex any `json:"cardIndex"`
}

type votePayload struct {
	SubmissionID any `json:"submissionId"`
}

func New(cfg config.Config) *Server {
	return &Server{config: cfg, conns: make(map[string]socketio.Conn)}
}

func (srv *Server) SetSession(s *game.Session) { srv.sess = s }

// Mount attaches Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		srv.onConnect(s)
		return nil
	})
	io.OnEvent("/", "joinGame", srv.onJoin)
	io.OnEvent("/", "startGame", srv.onStart)
	io.OnEvent("/", "pickDraftCard", srv.onPickDraftCard)
	io.OnEvent("/", "submitInitialHand", srv.onSubmitInitialHand)
	io.OnEvent("/", "playCard", srv.onPlayCard)
	io.OnEvent("/", "castVote", srv.onCastVote)
	io.OnEvent("/", "readyNextRound", srv.onReadyNextRound)
	io.OnEvent("/", "restartGame", srv.onRestart)

	io.OnError("/", func(s socketio.Conn, e error) {
		sid := ""
		if s != nil {
			sid = s.ID()
		}
		log.Error().Str("sid", sid).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", srv.onDisconnect)

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io serve")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", srv.config.CORSOrigin)
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

func (srv *Server) onConnect(s socketio.Conn) {
	s.SetContext(&ConnCtx{})
	srv.mu.Lock()
	srv.conns[s.ID()] = s
	srv.mu.Unlock()
	log.Info().Str("sid", s.ID()).Msg("socket connected")
	// late arrivals see the table straight away
	s.Emit(game.EventLobbyUpdate, srv.sess.Lobby())
}

func (srv *Server) onDisconnect(s socketio.Conn, reason string) {
	srv.mu.Lock()
	delete(srv.conns, s.ID())
	srv.mu.Unlock()
	log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	srv.sess.Leave(s.ID())
}

func (srv *Server) onJoin(s socketio.Conn, p joinPayload) {
	id, err := srv.sess.Join(s.ID(), p.Name)
	if err != nil {
		srv.reply(s, "joinGame", err)
		return
	}
	if ctx, ok := s.Context().(*ConnCtx); ok {
		ctx.PlayerID = id
	}
}

func (srv *Server) onStart(s socketio.Conn, p startPayload) {
	srv.reply(s, "startGame", srv.sess.Start(s.ID(), p.Mode))
}

func (srv *Server) onPickDraftCard(s socketio.Conn, p draftPayload) {
	srv.reply(s, "pickDraftCard", srv.sess.PickDraftCard(s.ID(), asIndex(p.ChoiceIndex)))
}

func (srv *Server) onSubmitInitialHand(s socketio.Conn, p handPayload) {
	srv.reply(s, "submitInitialHand", srv.sess.SubmitInitialHand(s.ID(), asStrings(p.Answers)))
}

func (srv *Server) onPlayCard(s socketio.Conn, p playPayload) {
	srv.reply(s, "playCard", srv.sess.PlayCard(s.ID(), asIndex(p.CardIndex)))
}

func (srv *Server) onCastVote(s socketio.Conn, p votePayload) {
	srv.reply(s, "castVote", srv.sess.CastVote(s.ID(), asIndex(p.SubmissionID)))
}

func (srv *Server) onReadyNextRound(s socketio.Conn) {
	srv.reply(s, "readyNextRound", srv.sess.ReadyNextRound(s.ID()))
}

func (srv *Server) onRestart(s socketio.Conn) {
	srv.reply(s, "restartGame", srv.sess.Restart(s.ID()))
}

// reply reports a rejected action to the socket that sent it.
func (srv *Server) reply(s socketio.Conn, event string, err error) {
	if err == nil {
		return
	}
	ev := log.Debug().Str("sid", s.ID()).Str("event", event).Err(err)
	if ctx, ok := s.Context().(*ConnCtx); ok && ctx.PlayerID != 0 {
		ev = ev.Int("player", ctx.PlayerID)
	}
	ev.Msg("action rejected")
	s.Emit(game.EventErrorMessage, game.MessagePayload{Message: err.Error()})
}

// Send implements game.Notifier.
func (srv *Server) Send(conn string, event string, payload any) {
	srv.mu.RLock()
	c := srv.conns[conn]
	srv.mu.RUnlock()
	if c == nil {
		return
	}
	c.Emit(event, payload)
}

// Broadcast implements game.Notifier. Every connected socket receives it,
// seated or not.
func (srv *Server) Broadcast(event string, payload any) {
	srv.mu.RLock()
	out := make([]socketio.Conn, 0, len(srv.conns))
	for _, c := range srv.conns {
		out = append(out, c)
	}
	srv.mu.RUnlock()
	for _, c := range out {
		c.Emit(event, payload)
	}
}

// asIndex reads a JSON number that must be integral. Anything else maps to
// -1, which no hand, draft offer or submission accepts.
func asIndex(v any) int {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return -1
	}
	return int(f)
}

func asStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		switch t := item.(type) {
		case nil:
			out = append(out, "")
		case string:
			out = append(out, t)
		default:
			out = append(out, fmt.Sprint(t))
		}
	}
	return out
}
