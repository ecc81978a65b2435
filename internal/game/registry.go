package game

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// codeAlphabet excludes visually confusable characters (0/O, 1/I).
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 5
)

// Registry owns the mapping from room code to live rooms plus a handle ->
// code index so disconnects resolve without scanning every room. Rooms with
// zero participants are removed and their codes become free again.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	members map[uuid.UUID]string
	rng     *rand.Rand
}

// NewRegistry creates an empty registry. rng may be nil, in which case the
// shared rand source is used for code generation.
func NewRegistry(rng *rand.Rand) *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		members: make(map[uuid.UUID]string),
		rng:     rng,
	}
}

// Create registers a new empty room in the lobby state under a freshly
// generated unique code. Collisions retry; uniqueness is guaranteed, not
// assumed.
func (r *Registry) Create() (string, *Room) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var code string
	for {
		code = r.generateCode()
		if _, exists := r.rooms[code]; !exists {
			break
		}
	}

	room := &Room{Code: code, State: StateLobby}
	r.rooms[code] = room
	return code, room
}

// Get resolves a code to a live room. Codes compare case-insensitively.
func (r *Registry) Get(code string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[NormalizeCode(code)]
	return room, ok
}

// Remove deletes a room. Called when the participant set becomes empty.
func (r *Registry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, NormalizeCode(code))
}

// Bind records which room a connection handle belongs to.
func (r *Registry) Bind(handle uuid.UUID, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[handle] = NormalizeCode(code)
}

// Unbind forgets a handle's room membership.
func (r *Registry) Unbind(handle uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, handle)
}

// RoomFor returns the room a handle is currently joined to, if any.
func (r *Registry) RoomFor(handle uuid.UUID) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	code, ok := r.members[handle]
	if !ok {
		return nil, false
	}
	room, ok := r.rooms[code]
	return room, ok
}

// Len reports the number of live rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// NormalizeCode uppercases and trims a client-supplied room code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (r *Registry) generateCode() string {
	buf := make([]byte, codeLength)
	for i := range buf {
		if r.rng != nil {
			buf[i] = codeAlphabet[r.rng.Intn(len(codeAlphabet))]
		} else {
			buf[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
	}
	return string(buf)
}
