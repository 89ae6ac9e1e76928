package server

import "sync"

// LeaveResult describes the outcome of a leave request.
type LeaveResult int

const (
	LeaveOK LeaveResult = iota
	LeaveNoGroup
	LeaveNotMember
)

// GroupRegistry owns the named groups and their membership sets behind a
// single lock. Membership is tracked by username, not connection: resolving
// members to live sessions is the dispatcher's job, done against the session
// registry after the member snapshot is taken, so the two locks are never
// held together.
type GroupRegistry struct {
	mu      sync.RWMutex
	groups  map[string]map[string]struct{} // name -> member usernames
	metrics *Metrics
}

// NewGroupRegistry creates an empty group registry.
func NewGroupRegistry() *GroupRegistry {
	return &GroupRegistry{
		groups: make(map[string]map[string]struct{}),
	}
}

// SetMetrics attaches metrics to the group registry.
func (gr *GroupRegistry) SetMetrics(metrics *Metrics) {
	gr.metrics = metrics
}

// Create makes a new group with creator as its sole member. Returns false
// without touching the registry when the name is already taken.
func (gr *GroupRegistry) Create(name, creator string) bool {
	gr.mu.Lock()
	if _, exists := gr.groups[name]; exists {
		gr.mu.Unlock()
		return false
	}
	gr.groups[name] = map[string]struct{}{creator: {}}
	count := len(gr.groups)
	gr.mu.Unlock()

	if gr.metrics != nil {
		gr.metrics.SetActiveGroups(count)
	}
	return true
}

// Join adds username to the group's member set. Joining a group you already
// belong to is a no-op that still succeeds. Returns false when the group
// does not exist.
func (gr *GroupRegistry) Join(name, username string) bool {
	gr.mu.Lock()
	defer gr.mu.Unlock()

	members, exists := gr.groups[name]
	if !exists {
		return false
	}
	members[username] = struct{}{}
	return true
}

// Leave removes username from the group. The group is deleted when its last
// member leaves.
func (gr *GroupRegistry) Leave(name, username string) LeaveResult {
	gr.mu.Lock()
	members, exists := gr.groups[name]
	if !exists {
		gr.mu.Unlock()
		return LeaveNoGroup
	}
	if _, member := members[username]; !member {
		gr.mu.Unlock()
		return LeaveNotMember
	}
	delete(members, username)
	if len(members) == 0 {
		delete(gr.groups, name)
	}
	count := len(gr.groups)
	gr.mu.Unlock()

	if gr.metrics != nil {
		gr.metrics.SetActiveGroups(count)
	}
	return LeaveOK
}

// Members returns a snapshot of the group's member set, and whether the
// group exists.
func (gr *GroupRegistry) Members(name string) ([]string, bool) {
	gr.mu.RLock()
	defer gr.mu.RUnlock()

	members, exists := gr.groups[name]
	if !exists {
		return nil, false
	}
	snapshot := make([]string, 0, len(members))
	for username := range members {
		snapshot = append(snapshot, username)
	}
	return snapshot, true
}

// IsMember reports whether username belongs to the named group.
func (gr *GroupRegistry) IsMember(name, username string) bool {
	gr.mu.RLock()
	defer gr.mu.RUnlock()

	members, exists := gr.groups[name]
	if !exists {
		return false
	}
	_, member := members[username]
	return member
}

// RemoveMemberEverywhere purges username from every group, deleting groups
// that become empty. Called on disconnect so fan-out never meets a member
// with no live session.
func (gr *GroupRegistry) RemoveMemberEverywhere(username string) {
	gr.mu.Lock()
	for name, members := range gr.groups {
		if _, member := members[username]; !member {
			continue
		}
		delete(members, username)
		if len(members) == 0 {
			delete(gr.groups, name)
		}
	}
	count := len(gr.groups)
	gr.mu.Unlock()

	if gr.metrics != nil {
		gr.metrics.SetActiveGroups(count)
	}
}

// Count returns the number of live groups.
func (gr *GroupRegistry) Count() int {
	gr.mu.RLock()
	defer gr.mu.RUnlock()

	return len(gr.groups)
}
