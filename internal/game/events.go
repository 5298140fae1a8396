package game

// Outbound event names.
const (
	EventJoined         = "joined"
	EventLobbyUpdate    = "lobbyUpdate"
	EventDraftOptions   = "draftOptions"
	EventDraftPicked    = "draftPicked"
	EventStartHandInput = "startHandInput"
	EventRoundStarted   = "roundStarted"
	EventCardPlayed     = "cardPlayed"
	EventStartVote      = "startVote"
	EventRoundResult    = "roundResult"
	EventGameOver       = "gameOver"
	EventErrorMessage   = "errorMessage"
	EventInfoMessage    = "infoMessage"
)

// Notifier delivers outbound messages. Send addresses a single connection
// handle and must be a no-op when that connection is gone. Implementations
// must not call back into the Session.
type Notifier interface {
	Send(conn string, event string, payload any)
	Broadcast(event string, payload any)
}

type ScoreEntry struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type JoinedPayload struct {
	PlayerID int `json:"playerId"`
}

type LobbyUpdate struct {
	Players    []ScoreEntry `json:"players"`
	MaxPlayers int          `json:"maxPlayers"`
	HostID     *int         `json:"hostId"`
	GamePhase  Phase        `json:"gamePhase"`
}

type DraftOptionsPayload struct {
	PicksDone  int      `json:"picksDone"`
	TotalPicks int      `json:"totalPicks"`
	Options    []string `json:"options"`
}

type DraftPickedPayload struct {
	PicksDone  int `json:"picksDone"`
	TotalPicks int `json:"totalPicks"`
}

type StartHandInputPayload struct {
	HandSize int `json:"handSize"`
}

type RoundStartedPayload struct {
	Round       int          `json:"round"`
	TotalRounds int          `json:"totalRounds"`
	Prompt      string       `json:"prompt"`
	Hand        []string     `json:"hand"`
	Scores      []ScoreEntry `json:"scores"`
}

type CardPlayedPayload struct {
	OK bool `json:"ok"`
}

type VoteEntry struct {
	SubmissionID int    `json:"submissionId"`
	Text         string `json:"text"`
	IsMine       bool   `json:"isMine"`
}

type StartVotePayload struct {
	Round       int          `json:"round"`
	TotalRounds int          `json:"totalRounds"`
	Prompt      string       `json:"prompt"`
	Submissions []VoteEntry  `json:"submissions"`
	Scores      []ScoreEntry `json:"scores"`
}

type ResultEntry struct {
	Text      string `json:"text"`
	OwnerName string `json:"ownerName"`
	Votes     int    `json:"votes"`
}

type RoundResultPayload struct {
	Round       int           `json:"round"`
	Prompt      string        `json:"prompt"`
	Results     []ResultEntry `json:"results"`
	Scores      []ScoreEntry  `json:"scores"`
	IsLastRound bool          `json:"isLastRound"`
}

type GameOverPayload struct {
	Scores []ScoreEntry `json:"scores"`
}

type MessagePayload struct {
	Message string `json:"message"`
}
