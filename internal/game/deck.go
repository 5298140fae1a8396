package game

import "math/rand"

// Deck is a shuffled, consumable copy of a card pool. Drawing from an empty
// deck refills and reshuffles it from the pool first, so it never runs out.
type Deck struct {
	pool  []string
	cards []string
	rng   *rand.Rand
}

func NewDeck(pool []string, rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	d.Reset(pool)
	return d
}

// Reset replaces the working sequence with a freshly shuffled copy of pool.
func (d *Deck) Reset(pool []string) {
	d.pool = pool
	d.refill()
}

func (d *Deck) Draw() string {
	if len(d.cards) == 0 {
		d.refill()
	}
	last := len(d.cards) - 1
	card := d.cards[last]
	d.cards = d.cards[:last]
	return card
}

func (d *Deck) Len() int { return len(d.cards) }

func (d *Deck) refill() {
	d.cards = append(make([]string, 0, len(d.pool)), d.pool...)
	shuffleStrings(d.rng, d.cards)
}

func shuffleStrings(rng *rand.Rand, s []string) {
	rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}
