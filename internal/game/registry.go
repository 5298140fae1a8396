package game

// Registry holds the seated players in join order. The first entry is the
// host; host identity is never stored.
type Registry struct {
	players []*Player
	nextID  int
}

func NewRegistry() *Registry {
	return &Registry{nextID: 1}
}

// Add seats a new player with the next id. Capacity and phase are checked by
// the caller, which owns the phase.
func (r *Registry) Add(conn, name string) *Player {
	p := &Player{ID: r.nextID, Name: name, Conn: conn, Hand: []string{}}
	r.nextID++
	r.players = append(r.players, p)
	return p
}

// Remove unseats the player on conn. It returns nil if no one sits there.
func (r *Registry) Remove(conn string) *Player {
	for i, p := range r.players {
		if p.Conn == conn {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return p
		}
	}
	return nil
}

func (r *Registry) Host() *Player {
	if len(r.players) == 0 {
		return nil
	}
	return r.players[0]
}

func (r *Registry) IsHost(p *Player) bool {
	h := r.Host()
	return h != nil && p != nil && h.ID == p.ID
}

func (r *Registry) ByConn(conn string) *Player {
	for _, p := range r.players {
		if p.Conn == conn {
			return p
		}
	}
	return nil
}

func (r *Registry) ByID(id int) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Registry) Len() int { return len(r.players) }

func (r *Registry) Full() bool { return len(r.players) >= MaxPlayers }

// All returns the seated players in join order. The slice is shared; callers
// must not append to it.
func (r *Registry) All() []*Player { return r.players }

// Clear empties the table and restarts id assignment.
func (r *Registry) Clear() {
	r.players = nil
	r.nextID = 1
}
