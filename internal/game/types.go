package game

const (
	MaxPlayers  = 4
	TotalRounds = 5
	HandSize    = 5

	// draft offers are always a pair
	draftOptionCount = 2
)

type Phase string

const (
	PhaseWaiting   Phase = "waiting"
	PhaseDraft     Phase = "draft"
	PhaseHandInput Phase = "handInput"
	PhasePlay      Phase = "play"
	PhaseVote      Phase = "vote"
	PhaseResult    Phase = "result"
	PhaseFinished  Phase = "finished"
)

// inGame reports whether a game is underway, i.e. seats are locked and a
// departure can leave the table short-handed.
func (p Phase) inGame() bool {
	switch p {
	case PhaseDraft, PhaseHandInput, PhasePlay, PhaseVote, PhaseResult:
		return true
	}
	return false
}

type Mode string

const (
	ModeDraft  Mode = "draft"
	ModeCustom Mode = "custom"
)

// ParseMode maps the client's requested mode to a Mode; anything other than
// "custom" is a draft game.
func ParseMode(s string) Mode {
	if Mode(s) == ModeCustom {
		return ModeCustom
	}
	return ModeDraft
}

// CardPools are the immutable prompt and answer lists a session deals from.
type CardPools struct {
	Prompts []string `yaml:"prompts"`
	Answers []string `yaml:"answers"`
}

type Player struct {
	ID    int
	Name  string
	Conn  string
	Hand  []string
	Score int

	DraftCount           int
	DraftOptions         []string
	InitialHandSubmitted bool
}

func (p *Player) resetForGame() {
	p.Score = 0
	p.Hand = []string{}
	p.DraftCount = 0
	p.DraftOptions = nil
	p.InitialHandSubmitted = false
}

type Submission struct {
	ID       int
	PlayerID int
	Text     string
	Votes    int
}
