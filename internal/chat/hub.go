// Package chat is the live side of team chat: the group registry, the
// websocket clients that join it, and the relays that carry persisted
// messages to group members.
package chat

import (
	"sync"

	"go.uber.org/zap"
)

// Member is one live connection that can receive encoded frames.
// Send must not block; it reports false when the frame was dropped.
type Member interface {
	Send(frame []byte) bool
}

// Hub maps a group name to the set of live members in it. Join and leave
// are explicit mutations; a member may be in any number of groups.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[Member]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		groups: make(map[string]map[Member]struct{}),
		logger: logger,
	}
}

func (h *Hub) Join(group string, m Member) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[group]
	if !ok {
		members = make(map[Member]struct{})
		h.groups[group] = members
	}
	members[m] = struct{}{}
}

func (h *Hub) Leave(group string, m Member) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leave(group, m)
}

// LeaveAll removes m from every group. Called when a connection closes.
func (h *Hub) LeaveAll(m Member) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for group := range h.groups {
		h.leave(group, m)
	}
}

func (h *Hub) leave(group string, m Member) {
	members, ok := h.groups[group]
	if !ok {
		return
	}
	delete(members, m)
	if len(members) == 0 {
		delete(h.groups, group)
	}
}

// Deliver sends frame once to every member of any of groups. A member in
// several of the groups still receives one copy. Returns how many members
// accepted the frame.
func (h *Hub) Deliver(groups []string, frame []byte) int {
	h.mu.RLock()
	targets := make(map[Member]struct{})
	for _, group := range groups {
		for m := range h.groups[group] {
			targets[m] = struct{}{}
		}
	}
	h.mu.RUnlock()

	delivered := 0
	for m := range targets {
		if m.Send(frame) {
			delivered++
			continue
		}
		h.logger.Warn("chat frame dropped for slow client", zap.Strings("groups", groups))
	}
	return delivered
}

// Size returns the number of members in group.
func (h *Hub) Size(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}

// IsMember reports whether m has joined group.
func (h *Hub) IsMember(group string, m Member) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.groups[group][m]
	return ok
}
