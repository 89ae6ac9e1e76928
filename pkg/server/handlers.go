package server

import (
	"github.com/tindrew/lanchat/pkg/protocol"
)

// dispatchCommand routes one parsed command to its handler. Protocol errors
// (unknown verb, missing group, bad recipient) are recovered locally with a
// notice; nothing here ever terminates the connection.
func (s *Server) dispatchCommand(sess *Session, cmd protocol.Command) {
	switch cmd.Verb {
	case protocol.VerbBroadcast:
		s.handleBroadcast(sess, cmd.Args)
	case protocol.VerbMsg:
		s.handlePrivateMessage(sess, cmd.Args)
	case protocol.VerbCreate:
		s.handleCreateGroup(sess, cmd.Args)
	case protocol.VerbJoin:
		s.handleJoinGroup(sess, cmd.Args)
	case protocol.VerbLeave:
		s.handleLeaveGroup(sess, cmd.Args)
	case protocol.VerbGroup:
		s.handleGroupMessage(sess, cmd.Args)
	default:
		s.metrics.RecordMessage("control")
		s.notice(sess, protocol.UsageNotice)
	}
}

func (s *Server) handleBroadcast(sess *Session, text string) {
	s.metrics.RecordMessage("broadcast")
	s.broadcastExcept(sess.Username, protocol.BroadcastLine(sess.Username, text))
}

func (s *Server) handlePrivateMessage(sess *Session, args string) {
	recipient, text := protocol.SplitArg(args)
	if recipient == "" {
		s.metrics.RecordMessage("control")
		s.notice(sess, protocol.UsageNotice)
		return
	}
	s.metrics.RecordMessage("private")
	s.unicast(sess, recipient, text)
}

func (s *Server) handleCreateGroup(sess *Session, args string) {
	name, _ := protocol.SplitArg(args)
	if name == "" {
		s.metrics.RecordMessage("control")
		s.notice(sess, protocol.UsageNotice)
		return
	}
	s.metrics.RecordMessage("control")
	if s.groups.Create(name, sess.Username) {
		debugLog.Printf("session %d: %s created group %q", sess.ID, sess.Username, name)
		s.notice(sess, protocol.GroupCreated(name))
		return
	}
	s.notice(sess, protocol.GroupExists(name))
}

func (s *Server) handleJoinGroup(sess *Session, args string) {
	name, _ := protocol.SplitArg(args)
	if name == "" {
		s.metrics.RecordMessage("control")
		s.notice(sess, protocol.UsageNotice)
		return
	}
	s.metrics.RecordMessage("control")
	if s.groups.Join(name, sess.Username) {
		s.notice(sess, protocol.GroupJoined(name))
		return
	}
	s.notice(sess, protocol.GroupMissing(name))
}

func (s *Server) handleLeaveGroup(sess *Session, args string) {
	name, _ := protocol.SplitArg(args)
	if name == "" {
		s.metrics.RecordMessage("control")
		s.notice(sess, protocol.UsageNotice)
		return
	}
	s.metrics.RecordMessage("control")
	switch s.groups.Leave(name, sess.Username) {
	case LeaveOK:
		s.notice(sess, protocol.GroupLeft(name))
	case LeaveNotMember:
		s.notice(sess, protocol.NotAMemberLeave(name))
	case LeaveNoGroup:
		s.notice(sess, protocol.GroupMissing(name))
	}
}

func (s *Server) handleGroupMessage(sess *Session, args string) {
	name, text := protocol.SplitArg(args)
	if name == "" {
		s.metrics.RecordMessage("control")
		s.notice(sess, protocol.UsageNotice)
		return
	}
	s.metrics.RecordMessage("group")
	s.groupCast(sess, name, text)
}
