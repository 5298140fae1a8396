package game

import (
	"math/rand"
	"testing"
	"time"
)

const broadcastConn = "*"

type sentMsg struct {
	conn    string
	event   string
	payload any
}

type recorder struct {
	msgs []sentMsg
}

func (r *recorder) Send(conn, event string, payload any) {
	r.msgs = append(r.msgs, sentMsg{conn: conn, event: event, payload: payload})
}

func (r *recorder) Broadcast(event string, payload any) {
	r.msgs = append(r.msgs, sentMsg{conn: broadcastConn, event: event, payload: payload})
}

func (r *recorder) last(conn, event string) (any, bool) {
	for i := len(r.msgs) - 1; i >= 0; i-- {
		if m := r.msgs[i]; m.conn == conn && m.event == event {
			return m.payload, true
		}
	}
	return nil, false
}

func (r *recorder) count(conn, event string) int {
	n := 0
	for _, m := range r.msgs {
		if m.conn == conn && m.event == event {
			n++
		}
	}
	return n
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) func() bool {
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return func() bool {
		active := !t.stopped && !t.fired
		t.stopped = true
		return active
	}
}

func (c *fakeClock) pending() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

func (c *fakeClock) fireAll() {
	for _, t := range c.pending() {
		t.fired = true
		t.f()
	}
}

func testPools() CardPools {
	return CardPools{
		Prompts: []string{"prompt one", "prompt two", "prompt three"},
		Answers: []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9"},
	}
}

func newTestSession(t *testing.T) (*Session, *recorder, *fakeClock) {
	t.Helper()
	rec := &recorder{}
	clock := &fakeClock{}
	s := NewSession(testPools(), rec)
	s.rng = rand.New(rand.NewSource(42))
	s.clock = clock
	s.promptDeck = NewDeck(s.pools.Prompts, s.rng)
	s.answerDeck = NewDeck(s.pools.Answers, s.rng)
	return s, rec, clock
}

func mustJoin(t *testing.T, s *Session, conn, name string) int {
	t.Helper()
	id, err := s.Join(conn, name)
	if err != nil {
		t.Fatalf("join %s: %v", name, err)
	}
	return id
}

func draftAll(t *testing.T, s *Session, conns ...string) {
	t.Helper()
	for _, c := range conns {
		for i := 0; i < HandSize; i++ {
			if err := s.PickDraftCard(c, 0); err != nil {
				t.Fatalf("pick %d for %s: %v", i, c, err)
			}
		}
	}
}

func submitHands(t *testing.T, s *Session, conns ...string) {
	t.Helper()
	for _, c := range conns {
		answers := []string{c + "-1", c + "-2", c + "-3", c + "-4", c + "-5"}
		if err := s.SubmitInitialHand(c, answers); err != nil {
			t.Fatalf("submit hand for %s: %v", c, err)
		}
	}
}

func playAll(t *testing.T, s *Session, conns ...string) {
	t.Helper()
	for _, c := range conns {
		if err := s.PlayCard(c, 0); err != nil {
			t.Fatalf("play for %s: %v", c, err)
		}
	}
}

// voteOthers makes every conn vote for the first entry on its ballot that is
// not its own.
func voteOthers(t *testing.T, s *Session, rec *recorder, conns ...string) {
	t.Helper()
	for _, c := range conns {
		raw, ok := rec.last(c, EventStartVote)
		if !ok {
			t.Fatalf("no ballot for %s", c)
		}
		ballot := raw.(StartVotePayload)
		target := -1
		for _, e := range ballot.Submissions {
			if !e.IsMine {
				target = e.SubmissionID
				break
			}
		}
		if target < 0 {
			t.Fatalf("no votable entry for %s", c)
		}
		if err := s.CastVote(c, target); err != nil {
			t.Fatalf("vote for %s: %v", c, err)
		}
	}
}

func startDraftGame(t *testing.T, s *Session, conns ...string) {
	t.Helper()
	for i, c := range conns {
		mustJoin(t, s, c, "P"+string(rune('A'+i)))
	}
	if err := s.Start(conns[0], "draft"); err != nil {
		t.Fatalf("start: %v", err)
	}
	draftAll(t, s, conns...)
	if s.phase != PhasePlay {
		t.Fatalf("expected phase %s after drafting, got %s", PhasePlay, s.phase)
	}
}
