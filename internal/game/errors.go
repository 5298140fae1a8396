package game

import (
	"errors"
	"fmt"
)

// Rejected actions. The text is shown to the player who sent the action.
var (
	ErrInvalidPhase      = errors.New("that action is not available right now")
	ErrGameInProgress    = errors.New("a game is in progress, you cannot join now")
	ErrRoomFull          = errors.New("the table is full")
	ErrAlreadyJoined     = errors.New("you have already joined")
	ErrNotHost           = errors.New("only the host can do that")
	ErrNotEnoughPlayers  = errors.New("at least 2 players are needed to start")
	ErrNoDraftOffer      = errors.New("there are no cards to choose from right now")
	ErrInvalidChoice     = errors.New("invalid choice")
	ErrHandSize          = fmt.Errorf("enter exactly %d answers", HandSize)
	ErrEmptyAnswer       = errors.New("some answers are blank, fill them all in")
	ErrInvalidCard       = errors.New("you cannot play that card")
	ErrAlreadyPlayed     = errors.New("you have already played a card this round")
	ErrAlreadyVoted      = errors.New("you have already voted")
	ErrUnknownSubmission = errors.New("that answer does not exist")
	ErrSelfVote          = errors.New("you cannot vote for your own card")
	ErrFinalRound        = errors.New("this was the final round")
)
