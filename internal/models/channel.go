package models

import (
	"sync"

	"github.com/google/uuid"
)

// Channel tracks who is connected to one session's relay. It carries no game state.
type Channel struct {
	Session     string
	Clients     map[uuid.UUID]*Client
	ClientCount int
	Mu          sync.Mutex
}

// Roles returns the roles currently connected, one entry per client.
func (ch *Channel) Roles() []Role {
	ch.Mu.Lock()
	defer ch.Mu.Unlock()
	roles := make([]Role, 0, len(ch.Clients))
	for _, c := range ch.Clients {
		roles = append(roles, c.Role)
	}
	return roles
}

type ChannelManager struct {
	Channels map[string]*Channel
	Mu       sync.Mutex
}

func NewChannelManager() *ChannelManager {
	return &ChannelManager{Channels: make(map[string]*Channel)}
}

// GetOrCreate returns the channel for session, creating it on first use.
func (m *ChannelManager) GetOrCreate(session string) *Channel {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	ch, ok := m.Channels[session]
	if !ok {
		ch = &Channel{
			Session: session,
			Clients: make(map[uuid.UUID]*Client),
		}
		m.Channels[session] = ch
	}
	return ch
}

func (m *ChannelManager) Get(session string) *Channel {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.Channels[session]
}

// Drop removes the channel once nobody is connected.
func (m *ChannelManager) Drop(session string) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	ch, ok := m.Channels[session]
	if !ok {
		return
	}
	ch.Mu.Lock()
	empty := ch.ClientCount == 0
	ch.Mu.Unlock()
	if empty {
		delete(m.Channels, session)
	}
}
