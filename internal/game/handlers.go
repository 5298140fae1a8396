package game

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Action handlers. Each takes the connection handle the action arrived on.
// A connection with no seat is a silent no-op (nil error); a rejected action
// returns one of the Err* values and leaves the session untouched.

// Join seats a new player on conn and returns their id.
func (s *Session) Join(conn, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseWaiting {
		return 0, ErrGameInProgress
	}
	if s.players.ByConn(conn) != nil {
		return 0, ErrAlreadyJoined
	}
	if s.players.Full() {
		return 0, ErrRoomFull
	}
	p := s.players.Add(conn, cleanText(name))
	if p.Name == "" {
		p.Name = fmt.Sprintf("Player %d", p.ID)
	}
	log.Info().Str("game", s.gameID).Int("player", p.ID).Str("name", p.Name).Msg("player joined")

	s.notify.Send(conn, EventJoined, JoinedPayload{PlayerID: p.ID})
	s.broadcastLobby()
	return p.ID, nil
}

func (s *Session) Start(conn, mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.players.ByConn(conn)
	if p == nil {
		return nil
	}
	if s.phase != PhaseWaiting {
		return ErrInvalidPhase
	}
	if !s.players.IsHost(p) {
		return ErrNotHost
	}
	if s.players.Len() < 2 {
		return ErrNotEnoughPlayers
	}
	s.mode = ParseMode(mode)
	s.startGame()
	return nil
}

func (s *Session) PickDraftCard(conn string, choice int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.players.ByConn(conn)
	if p == nil {
		return nil
	}
	if s.phase != PhaseDraft {
		return ErrInvalidPhase
	}
	if len(p.DraftOptions) != draftOptionCount {
		return ErrNoDraftOffer
	}
	if choice < 0 || choice >= draftOptionCount {
		return ErrInvalidChoice
	}
	p.Hand = append(p.Hand, p.DraftOptions[choice])
	p.DraftCount++
	p.DraftOptions = nil

	s.notify.Send(p.Conn, EventDraftPicked, DraftPickedPayload{PicksDone: p.DraftCount, TotalPicks: HandSize})

	if p.DraftCount < HandSize {
		s.offerDraft(p)
		return nil
	}
	log.Info().Str("game", s.gameID).Int("player", p.ID).Msg("player finished drafting")
	s.tryFinishDraft()
	return nil
}

func (s *Session) SubmitInitialHand(conn string, answers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.players.ByConn(conn)
	if p == nil {
		return nil
	}
	if s.phase != PhaseHandInput || s.mode != ModeCustom {
		return ErrInvalidPhase
	}
	if len(answers) != HandSize {
		return ErrHandSize
	}
	hand := make([]string, 0, HandSize)
	for _, a := range answers {
		t := cleanText(a)
		if t == "" {
			return ErrEmptyAnswer
		}
		hand = append(hand, t)
	}
	p.Hand = hand
	p.InitialHandSubmitted = true
	log.Info().Str("game", s.gameID).Int("player", p.ID).Msg("player submitted hand")

	s.tryFinishHandInput()
	if s.phase == PhaseHandInput {
		s.info(p, "Your hand is in. Waiting for the other players.")
	}
	return nil
}

func (s *Session) PlayCard(conn string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.players.ByConn(conn)
	if p == nil {
		return nil
	}
	if s.phase != PhasePlay {
		return ErrInvalidPhase
	}
	if index < 0 || index >= len(p.Hand) {
		return ErrInvalidCard
	}
	if s.submissionOf(p.ID) != nil {
		return ErrAlreadyPlayed
	}
	text := p.Hand[index]
	p.Hand = append(p.Hand[:index], p.Hand[index+1:]...)
	sub := &Submission{ID: s.nextSubmissionID, PlayerID: p.ID, Text: text}
	s.nextSubmissionID++
	s.submissions = append(s.submissions, sub)
	log.Info().Str("game", s.gameID).Int("player", p.ID).Int("submission", sub.ID).Msg("card played")

	s.notify.Send(p.Conn, EventCardPlayed, CardPlayedPayload{OK: true})
	s.tryMoveToVote()
	return nil
}

func (s *Session) CastVote(conn string, submissionID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	voter := s.players.ByConn(conn)
	if voter == nil {
		return nil
	}
	if s.phase != PhaseVote {
		return ErrInvalidPhase
	}
	if _, ok := s.votes[voter.ID]; ok {
		return ErrAlreadyVoted
	}
	sub := s.submissionByID(submissionID)
	if sub == nil {
		return ErrUnknownSubmission
	}
	if sub.PlayerID == voter.ID {
		return ErrSelfVote
	}
	s.votes[voter.ID] = submissionID
	log.Info().Str("game", s.gameID).Int("player", voter.ID).Int("submission", submissionID).Msg("vote cast")

	s.tryFinishVoting()
	return nil
}

func (s *Session) ReadyNextRound(conn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.players.ByConn(conn)
	if p == nil {
		return nil
	}
	if s.phase != PhaseResult {
		return ErrInvalidPhase
	}
	if s.round >= TotalRounds {
		return ErrFinalRound
	}
	s.ready[p.ID] = true
	s.tryAdvanceRound()
	return nil
}

// Restart returns the table to the lobby. Seats and the last mode are kept;
// scores, hands and draft progress are cleared.
func (s *Session) Restart(conn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.players.ByConn(conn)
	if p == nil {
		return nil
	}
	if !s.players.IsHost(p) {
		return ErrNotHost
	}
	log.Info().Str("game", s.gameID).Int("player", p.ID).Str("phase", string(s.phase)).Msg("game restarted by host")

	for _, pl := range s.players.All() {
		pl.resetForGame()
	}
	s.resetState(s.mode)
	s.broadcastLobby()
	return nil
}

// Leave unseats whoever is on conn. When the table empties the session is
// reset completely. Otherwise the current phase's completion check is rerun
// against the players still seated.
func (s *Session) Leave(conn string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prevHost := s.players.Host()
	gone := s.players.Remove(conn)
	if gone == nil {
		return
	}
	log.Info().Str("game", s.gameID).Int("player", gone.ID).Str("name", gone.Name).Str("phase", string(s.phase)).Msg("player left")

	if s.players.Len() == 0 {
		s.players.Clear()
		s.resetState(ModeDraft)
		s.broadcastLobby()
		return
	}

	if prevHost != nil && prevHost.ID == gone.ID {
		if h := s.players.Host(); h != nil {
			log.Info().Str("game", s.gameID).Int("player", h.ID).Msg("host reassigned")
			s.info(h, "You are now the host.")
		}
	}

	if !s.phase.inGame() {
		s.broadcastLobby()
		return
	}
	if s.players.Len() < 2 {
		log.Warn().Str("game", s.gameID).Msg("not enough players left, ending game")
		s.endGame()
		return
	}

	if s.phase == PhasePlay {
		kept := s.submissions[:0]
		for _, sub := range s.submissions {
			if sub.PlayerID != gone.ID {
				kept = append(kept, sub)
			}
		}
		s.submissions = kept
	}
	delete(s.votes, gone.ID)
	delete(s.ready, gone.ID)
	s.broadcastLobby()

	switch s.phase {
	case PhaseDraft:
		s.tryFinishDraft()
	case PhaseHandInput:
		s.tryFinishHandInput()
	case PhasePlay:
		s.tryMoveToVote()
	case PhaseVote:
		s.tryFinishVoting()
	case PhaseResult:
		s.tryAdvanceRound()
	}
}
