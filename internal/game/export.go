package game

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// RoundRecord is what gets written out for one tallied round.
type RoundRecord struct {
	GameID    string
	StartedAt time.Time
	Round     int
	Prompt    string
	Players   []string
	Results   []ResultEntry
	Scores    []ScoreEntry
}

// ExportRound appends a tallied round to a text file. A header with the
// player list is written for a new file or the first round of a game.
func ExportRound(filename string, rec RoundRecord) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fileExists := false
	if _, err := os.Stat(filename); err == nil {
		fileExists = true
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder

	if !fileExists || rec.Round == 1 {
		if fileExists {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Tefuda Oogiri Results - Game %s\n", rec.GameID)
		fmt.Fprintf(&sb, "Started: %s\n", rec.StartedAt.Format("2006-01-02 15:04:05"))
		sb.WriteString(strings.Repeat("=", 50) + "\n\n")

		sb.WriteString("Players:\n")
		for _, name := range rec.Players {
			fmt.Fprintf(&sb, "- %s\n", name)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Round %d: %q\n", rec.Round, rec.Prompt)
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	for _, r := range rec.Results {
		fmt.Fprintf(&sb, "- %s: %q (%d vote(s))\n", r.OwnerName, r.Text, r.Votes)
	}

	if len(rec.Scores) > 0 {
		sb.WriteString("\nScores after this round:\n")
		scores := append([]ScoreEntry(nil), rec.Scores...)
		sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
		for _, ps := range scores {
			fmt.Fprintf(&sb, "- %s: %d points\n", ps.Name, ps.Score)
		}
	}
	sb.WriteString("\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
