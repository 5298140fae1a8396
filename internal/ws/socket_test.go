package ws

import (
	"testing"

	"github.com/HanasakaAlice/tefuda-oogiri/internal/config"
	"github.com/HanasakaAlice/tefuda-oogiri/internal/game"
	socketio "github.com/googollee/go-socket.io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	event   string
	payload any
}

// fakeConn satisfies socketio.Conn through the embedded interface; only the
// methods the server touches are implemented.
type fakeConn struct {
	socketio.Conn
	id   string
	ctx  any
	sent []emitted
}

func newFakeConn(id string) *fakeConn { return &fakeConn{id: id} }

func (c *fakeConn) ID() string               { return c.id }
func (c *fakeConn) Context() interface{}     { return c.ctx }
func (c *fakeConn) SetContext(v interface{}) { c.ctx = v }
func (c *fakeConn) Emit(event string, v ...interface{}) {
	var payload any
	if len(v) > 0 {
		payload = v[0]
	}
	c.sent = append(c.sent, emitted{event: event, payload: payload})
}

func (c *fakeConn) events(name string) []any {
	var out []any
	for _, e := range c.sent {
		if e.event == name {
			out = append(out, e.payload)
		}
	}
	return out
}

func (c *fakeConn) lastError() string {
	errs := c.events(game.EventErrorMessage)
	if len(errs) == 0 {
		return ""
	}
	return errs[len(errs)-1].(game.MessagePayload).Message
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv := New(config.Config{CORSOrigin: "*"})
	pools := game.CardPools{
		Prompts: []string{"p1", "p2"},
		Answers: []string{"a1", "a2", "a3", "a4"},
	}
	srv.SetSession(game.NewSession(pools, srv))
	return srv
}

func TestConnectSendsLobby(t *testing.T) {
	srv := newTestServer(t)
	c := newFakeConn("s1")
	srv.onConnect(c)

	lobbies := c.events(game.EventLobbyUpdate)
	require.Len(t, lobbies, 1)
	lobby := lobbies[0].(game.LobbyUpdate)
	assert.Equal(t, game.PhaseWaiting, lobby.GamePhase)
	assert.Nil(t, lobby.HostID)
	assert.IsType(t, &ConnCtx{}, c.Context())
}

func TestJoinRepliesAndBroadcasts(t *testing.T) {
	srv := newTestServer(t)
	alice, watcher := newFakeConn("s1"), newFakeConn("s2")
	srv.onConnect(alice)
	srv.onConnect(watcher)

	srv.onJoin(alice, joinPayload{Name: "Alice"})

	joined := alice.events(game.EventJoined)
	require.Len(t, joined, 1)
	assert.Equal(t, 1, joined[0].(game.JoinedPayload).PlayerID)
	assert.Equal(t, 1, alice.Context().(*ConnCtx).PlayerID)

	// connected but unseated sockets still see the lobby
	lobbies := watcher.events(game.EventLobbyUpdate)
	require.Len(t, lobbies, 2)
	lobby := lobbies[1].(game.LobbyUpdate)
	require.Len(t, lobby.Players, 1)
	assert.Equal(t, "Alice", lobby.Players[0].Name)
	assert.Empty(t, watcher.events(game.EventJoined))
}

func TestRejectedActionOnlyReachesSender(t *testing.T) {
	srv := newTestServer(t)
	a, b := newFakeConn("s1"), newFakeConn("s2")
	srv.onConnect(a)
	srv.onConnect(b)
	srv.onJoin(a, joinPayload{Name: "A"})
	srv.onJoin(b, joinPayload{Name: "B"})

	srv.onStart(b, startPayload{Mode: "draft"})
	assert.Equal(t, game.ErrNotHost.Error(), b.lastError())
	assert.Empty(t, a.events(game.EventErrorMessage))

	srv.onJoin(a, joinPayload{Name: "again"})
	assert.Equal(t, game.ErrAlreadyJoined.Error(), a.lastError())
}

func TestDraftPickPayloads(t *testing.T) {
	srv := newTestServer(t)
	a, b := newFakeConn("s1"), newFakeConn("s2")
	srv.onConnect(a)
	srv.onConnect(b)
	srv.onJoin(a, joinPayload{Name: "A"})
	srv.onJoin(b, joinPayload{Name: "B"})
	srv.onStart(a, startPayload{})

	require.Len(t, a.events(game.EventDraftOptions), 1)

	srv.onPickDraftCard(a, draftPayload{ChoiceIndex: "0"})
	assert.Equal(t, game.ErrInvalidChoice.Error(), a.lastError())

	srv.onPickDraftCard(a, draftPayload{ChoiceIndex: float64(1)})
	picked := a.events(game.EventDraftPicked)
	require.Len(t, picked, 1)
	assert.Equal(t, 1, picked[0].(game.DraftPickedPayload).PicksDone)
	assert.Len(t, a.events(game.EventDraftOptions), 2)
}

func TestCustomHandPayload(t *testing.T) {
	srv := newTestServer(t)
	a, b := newFakeConn("s1"), newFakeConn("s2")
	srv.onConnect(a)
	srv.onConnect(b)
	srv.onJoin(a, joinPayload{Name: "A"})
	srv.onJoin(b, joinPayload{Name: "B"})
	srv.onStart(a, startPayload{Mode: "custom"})
	require.Len(t, a.events(game.EventStartHandInput), 1)

	srv.onSubmitInitialHand(a, handPayload{Answers: "not a list"})
	assert.Equal(t, game.ErrHandSize.Error(), a.lastError())

	srv.onSubmitInitialHand(a, handPayload{Answers: []any{"x", nil, "z", "w", "v"}})
	assert.Equal(t, game.ErrEmptyAnswer.Error(), a.lastError())

	srv.onSubmitInitialHand(a, handPayload{Answers: []any{"x", "y", "z", "w", "v"}})
	assert.Len(t, a.events(game.EventInfoMessage), 1)

	srv.onSubmitInitialHand(b, handPayload{Answers: []any{"1", "2", "3", "4", float64(5)}})
	started := b.events(game.EventRoundStarted)
	require.Len(t, started, 1)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, started[0].(game.RoundStartedPayload).Hand)
}

func TestDisconnectLeavesTable(t *testing.T) {
	srv := newTestServer(t)
	a, b := newFakeConn("s1"), newFakeConn("s2")
	srv.onConnect(a)
	srv.onConnect(b)
	srv.onJoin(a, joinPayload{Name: "A"})
	srv.onJoin(b, joinPayload{Name: "B"})

	srv.onDisconnect(a, "transport close")
	before := len(a.sent)

	lobby := srv.sess.Lobby()
	require.Len(t, lobby.Players, 1)
	require.NotNil(t, lobby.HostID)
	assert.Equal(t, 2, *lobby.HostID)
	assert.NotEmpty(t, b.events(game.EventInfoMessage))

	// messages for a gone socket are dropped
	srv.Send("s1", game.EventInfoMessage, game.MessagePayload{Message: "hi"})
	srv.Broadcast(game.EventLobbyUpdate, lobby)
	assert.Len(t, a.sent, before)
}

func TestAsIndex(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{float64(0), 0},
		{float64(3), 3},
		{float64(-2), -2},
		{float64(1.5), -1},
		{"1", -1},
		{nil, -1},
		{true, -1},
		{float64(1e12), -1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, asIndex(c.in), "%v", c.in)
	}
}

func TestAsStrings(t *testing.T) {
	assert.Nil(t, asStrings(nil))
	assert.Nil(t, asStrings("x"))
	assert.Equal(t, []string{"a", "", "2", "true"}, asStrings([]any{"a", nil, float64(2), true}))
}
