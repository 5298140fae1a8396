package game

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"
)

// DefaultGameOverDelay is how long the final round's results stay up before
// the game ends on its own.
const DefaultGameOverDelay = 8 * time.Second

type scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Session is the single table a server process hosts. Every exported method
// locks, validates against the live state, and runs to completion, so no
// handler ever sees another one half done.
type Session struct {
	mu sync.Mutex

	pools         CardPools
	notify        Notifier
	rng           *rand.Rand
	clock         scheduler
	gameOverDelay time.Duration
	exportFile    string

	gameID    string
	startedAt time.Time
	players   *Registry
	phase     Phase
	round     int
	prompt    string
	mode      Mode

	promptDeck *Deck
	answerDeck *Deck

	// per round state
	submissions      []*Submission
	nextSubmissionID int
	votes            map[int]int  // voterID -> submissionID
	ready            map[int]bool // playerID -> ready for next round

	stopTimer func() bool
	timerGen  uint64
}

func NewSession(pools CardPools, n Notifier) *Session {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	s := &Session{
		pools:         pools,
		notify:        n,
		rng:           rng,
		clock:         wallClock{},
		gameOverDelay: DefaultGameOverDelay,
		players:       NewRegistry(),
		promptDeck:    NewDeck(pools.Prompts, rng),
		answerDeck:    NewDeck(pools.Answers, rng),
	}
	s.resetState(ModeDraft)
	return s
}

func (s *Session) SetGameOverDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameOverDelay = d
}

// SetExportFile enables appending each round's results to filename.
func (s *Session) SetExportFile(filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exportFile = filename
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

func (s *Session) Lobby() LobbyUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lobby()
}

// resetState returns the table to its waiting defaults. Seats are untouched.
func (s *Session) resetState(mode Mode) {
	s.cancelTimer()
	s.gameID = uuid.NewString()
	s.phase = PhaseWaiting
	s.round = 0
	s.prompt = ""
	s.mode = mode
	s.submissions = nil
	s.nextSubmissionID = 1
	s.votes = make(map[int]int)
	s.ready = make(map[int]bool)
}

func (s *Session) cancelTimer() {
	s.timerGen++
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
}

func (s *Session) startGame() {
	s.promptDeck.Reset(s.pools.Prompts)
	s.answerDeck.Reset(s.pools.Answers)
	for _, p := range s.players.All() {
		p.resetForGame()
	}
	s.round = 0
	s.prompt = ""
	s.submissions = nil
	s.nextSubmissionID = 1
	s.votes = make(map[int]int)
	s.ready = make(map[int]bool)
	s.startedAt = time.Now()

	log.Info().Str("game", s.gameID).Str("mode", string(s.mode)).Int("players", s.players.Len()).Msg("game started")

	if s.mode == ModeCustom {
		s.setPhase(PhaseHandInput)
		for _, p := range s.players.All() {
			s.notify.Send(p.Conn, EventStartHandInput, StartHandInputPayload{HandSize: HandSize})
		}
	} else {
		s.setPhase(PhaseDraft)
		for _, p := range s.players.All() {
			s.offerDraft(p)
		}
	}
	s.broadcastLobby()
}

func (s *Session) setPhase(to Phase) {
	if s.phase == to {
		return
	}
	log.Debug().Str("game", s.gameID).Str("from", string(s.phase)).Str("to", string(to)).Int("round", s.round).Msg("phase transition")
	s.phase = to
}

func (s *Session) offerDraft(p *Player) {
	if p.DraftCount >= HandSize {
		return
	}
	opts := make([]string, draftOptionCount)
	for i := range opts {
		opts[i] = s.answerDeck.Draw()
	}
	p.DraftOptions = opts
	s.notify.Send(p.Conn, EventDraftOptions, DraftOptionsPayload{
		PicksDone:  p.DraftCount,
		TotalPicks: HandSize,
		Options:    append([]string(nil), opts...),
	})
}

func (s *Session) startNextRound() {
	s.round++
	if s.round > TotalRounds {
		s.round = TotalRounds
		s.endGame()
		return
	}
	s.setPhase(PhasePlay)
	s.submissions = nil
	s.votes = make(map[int]int)
	s.ready = make(map[int]bool)
	s.prompt = s.promptDeck.Draw()

	log.Info().Str("game", s.gameID).Int("round", s.round).Str("prompt", s.prompt).Msg("round started")

	scores := s.scores()
	for _, p := range s.players.All() {
		s.notify.Send(p.Conn, EventRoundStarted, RoundStartedPayload{
			Round:       s.round,
			TotalRounds: TotalRounds,
			Prompt:      s.prompt,
			Hand:        append(make([]string, 0, len(p.Hand)), p.Hand...),
			Scores:      scores,
		})
	}
	s.broadcastLobby()
}

// everyone reports whether pred holds for every seated player. An empty table
// never satisfies it.
func (s *Session) everyone(pred func(p *Player) bool) bool {
	all := s.players.All()
	if len(all) == 0 {
		return false
	}
	for _, p := range all {
		if !pred(p) {
			return false
		}
	}
	return true
}

func (s *Session) submissionOf(playerID int) *Submission {
	for _, sub := range s.submissions {
		if sub.PlayerID == playerID {
			return sub
		}
	}
	return nil
}

func (s *Session) submissionByID(id int) *Submission {
	for _, sub := range s.submissions {
		if sub.ID == id {
			return sub
		}
	}
	return nil
}

func (s *Session) tryFinishDraft() {
	if s.phase != PhaseDraft {
		return
	}
	if s.everyone(func(p *Player) bool { return p.DraftCount >= HandSize }) {
		log.Info().Str("game", s.gameID).Msg("all players finished drafting")
		s.round = 0
		s.startNextRound()
	}
}

func (s *Session) tryFinishHandInput() {
	if s.phase != PhaseHandInput {
		return
	}
	if s.everyone(func(p *Player) bool { return p.InitialHandSubmitted }) {
		log.Info().Str("game", s.gameID).Msg("all players submitted their hands")
		s.round = 0
		s.startNextRound()
	}
}

func (s *Session) tryMoveToVote() {
	if s.phase != PhasePlay {
		return
	}
	if !s.everyone(func(p *Player) bool { return s.submissionOf(p.ID) != nil }) {
		return
	}
	s.setPhase(PhaseVote)

	shuffled := append([]*Submission(nil), s.submissions...)
	s.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	scores := s.scores()
	for _, p := range s.players.All() {
		entries := make([]VoteEntry, 0, len(shuffled))
		for _, sub := range shuffled {
			entries = append(entries, VoteEntry{SubmissionID: sub.ID, Text: sub.Text, IsMine: sub.PlayerID == p.ID})
		}
		s.notify.Send(p.Conn, EventStartVote, StartVotePayload{
			Round:       s.round,
			TotalRounds: TotalRounds,
			Prompt:      s.prompt,
			Submissions: entries,
			Scores:      scores,
		})
	}
}

func (s *Session) tryFinishVoting() {
	if s.phase != PhaseVote {
		return
	}
	if !s.everyone(func(p *Player) bool { _, ok := s.votes[p.ID]; return ok }) {
		return
	}
	s.setPhase(PhaseResult)
	results := s.tally()
	last := s.round >= TotalRounds

	log.Info().Str("game", s.gameID).Int("round", s.round).Bool("last", last).Msg("round tallied")

	scores := s.scores()
	s.notify.Broadcast(EventRoundResult, RoundResultPayload{
		Round:       s.round,
		Prompt:      s.prompt,
		Results:     results,
		Scores:      scores,
		IsLastRound: last,
	})
	s.export(results, scores)

	s.ready = make(map[int]bool)
	if last {
		s.scheduleGameOver()
	}
}

// tally recounts every submission's votes from the vote map and credits the
// owners. Counts are rebuilt from zero so a repeated tally cannot double up.
func (s *Session) tally() []ResultEntry {
	for _, sub := range s.submissions {
		sub.Votes = 0
	}
	for _, target := range s.votes {
		if sub := s.submissionByID(target); sub != nil {
			sub.Votes++
		}
	}
	results := make([]ResultEntry, 0, len(s.submissions))
	for _, sub := range s.submissions {
		owner := s.players.ByID(sub.PlayerID)
		name := "???"
		if owner != nil {
			owner.Score += sub.Votes
			name = owner.Name
		}
		results = append(results, ResultEntry{Text: sub.Text, OwnerName: name, Votes: sub.Votes})
	}
	return results
}

func (s *Session) export(results []ResultEntry, scores []ScoreEntry) {
	if s.exportFile == "" {
		return
	}
	names := make([]string, 0, s.players.Len())
	for _, p := range s.players.All() {
		names = append(names, p.Name)
	}
	rec := RoundRecord{
		GameID:    s.gameID,
		StartedAt: s.startedAt,
		Round:     s.round,
		Prompt:    s.prompt,
		Players:   names,
		Results:   results,
		Scores:    scores,
	}
	if err := ExportRound(s.exportFile, rec); err != nil {
		log.Error().Err(err).Str("game", s.gameID).Str("file", s.exportFile).Msg("failed to export round")
		return
	}
	log.Debug().Str("game", s.gameID).Str("file", s.exportFile).Int("round", s.round).Msg("exported round")
}

func (s *Session) scheduleGameOver() {
	s.cancelTimer()
	gen := s.timerGen
	s.stopTimer = s.clock.AfterFunc(s.gameOverDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// restarted or reset since this was scheduled
		if gen != s.timerGen || s.phase != PhaseResult {
			return
		}
		s.stopTimer = nil
		s.endGame()
	})
}

func (s *Session) tryAdvanceRound() {
	if s.phase != PhaseResult || s.round >= TotalRounds {
		return
	}
	if s.everyone(func(p *Player) bool { return s.ready[p.ID] }) {
		log.Info().Str("game", s.gameID).Int("round", s.round).Msg("all players ready for next round")
		s.startNextRound()
	}
}

func (s *Session) endGame() {
	s.cancelTimer()
	s.setPhase(PhaseFinished)

	ranking := s.scores()
	sort.SliceStable(ranking, func(i, j int) bool { return ranking[i].Score > ranking[j].Score })

	log.Info().Str("game", s.gameID).Interface("ranking", ranking).Msg("game over")

	s.notify.Broadcast(EventGameOver, GameOverPayload{Scores: ranking})
	s.broadcastLobby()
}

func (s *Session) scores() []ScoreEntry {
	out := make([]ScoreEntry, 0, s.players.Len())
	for _, p := range s.players.All() {
		out = append(out, ScoreEntry{ID: p.ID, Name: p.Name, Score: p.Score})
	}
	return out
}

func (s *Session) lobby() LobbyUpdate {
	u := LobbyUpdate{
		Players:    s.scores(),
		MaxPlayers: MaxPlayers,
		GamePhase:  s.phase,
	}
	if h := s.players.Host(); h != nil {
		id := h.ID
		u.HostID = &id
	}
	return u
}

func (s *Session) broadcastLobby() {
	s.notify.Broadcast(EventLobbyUpdate, s.lobby())
}

func (s *Session) info(p *Player, msg string) {
	s.notify.Send(p.Conn, EventInfoMessage, MessagePayload{Message: msg})
}

// cleanText normalises user-authored text to NFC and trims surrounding space.
func cleanText(v string) string {
	return strings.TrimSpace(norm.NFC.String(v))
}
