package server

import (
	"github.com/tindrew/lanchat/pkg/protocol"
)

// Delivery primitives. All sends are one-way, best-effort writes: a recipient
// whose transport fails mid-fan-out is skipped without aborting delivery to
// the rest, and the sender is never told. Member snapshots are taken from one
// registry at a time, and all writes happen outside registry locks.

// notice sends an informational line back to the command's issuer.
func (s *Server) notice(sess *Session, text string) {
	if err := sess.Conn.WriteLine(text); err != nil {
		debugLog.Printf("session %d: notice write failed: %v", sess.ID, err)
	}
}

// deliver writes one line to a recipient session.
func (s *Server) deliver(target *Session, line string) {
	if err := target.Conn.WriteLine(line); err != nil {
		debugLog.Printf("session %d: delivery write failed: %v", target.ID, err)
		return
	}
	s.metrics.RecordDelivery()
}

// broadcastExcept delivers line to every live session except the named user.
func (s *Server) broadcastExcept(exceptUsername, line string) {
	for _, target := range s.sessions.Snapshot() {
		if target.Username == exceptUsername {
			continue
		}
		s.deliver(target, line)
	}
}

// unicast delivers text privately to recipient. When the recipient has no
// live session the sender - not the recipient - is told.
func (s *Server) unicast(sender *Session, recipient, text string) {
	target, ok := s.sessions.Resolve(recipient)
	if !ok {
		s.notice(sender, protocol.UserNotFound(recipient))
		return
	}
	s.deliver(target, protocol.PrivateLine(sender.Username, text))
}

// groupCast fans text out to every member of the group except the sender.
// Validation order is group existence, then sender membership; a failure at
// either step produces only a notice to the sender. Members without a live
// session are skipped (disconnect purging makes these rare, but a member can
// die between the membership snapshot and the index lookup).
func (s *Server) groupCast(sender *Session, group, text string) {
	members, exists := s.groups.Members(group)
	if !exists {
		s.notice(sender, protocol.GroupMissing(group))
		return
	}

	isMember := false
	for _, member := range members {
		if member == sender.Username {
			isMember = true
			break
		}
	}
	if !isMember {
		s.notice(sender, protocol.NotAMemberSend(group))
		return
	}

	line := protocol.GroupLine(group, sender.Username, text)
	for _, member := range members {
		if member == sender.Username {
			continue
		}
		target, ok := s.sessions.Resolve(member)
		if !ok {
			continue
		}
		s.deliver(target, line)
	}
}
