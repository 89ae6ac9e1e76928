package protocol

import "fmt"

// Server-initiated prompts. Written without a trailing delimiter so the
// client's input cursor sits on the same line.
const (
	UsernamePrompt = "Enter username: "
	PasswordPrompt = "Enter password: "
)

// Fixed notices.
const (
	AuthSuccessNotice = "Authentication successful. Welcome to the server!"
	AuthFailureNotice = "Authentication failed. Disconnecting."
	EvictedNotice     = "Logged in from another location. Disconnecting."
	ShutdownNotice    = "Server is shutting down."
	UsageNotice       = "Unknown command. Available commands: /broadcast, /msg, /create, /join, /leave, /group"
)

// JoinedChat is broadcast to all other users when someone authenticates.
func JoinedChat(username string) string {
	return username + " has joined the chat."
}

// LeftChat is broadcast to all other users when someone disconnects.
func LeftChat(username string) string {
	return username + " has left the chat."
}

// BroadcastLine formats a global broadcast as seen by recipients.
func BroadcastLine(sender, text string) string {
	return sender + ": " + text
}

// PrivateLine formats a direct message as seen by the recipient.
func PrivateLine(sender, text string) string {
	return "PM from " + sender + ": " + text
}

// UserNotFound tells a sender their direct-message recipient is offline or
// unknown.
func UserNotFound(recipient string) string {
	return fmt.Sprintf("User %s not found.", recipient)
}

// GroupLine formats a group message as seen by the other members.
func GroupLine(group, sender, text string) string {
	return fmt.Sprintf("Group %s - %s: %s", group, sender, text)
}

// GroupCreated confirms group creation to the creator.
func GroupCreated(group string) string {
	return fmt.Sprintf("Group %s created successfully.", group)
}

// GroupExists tells a creator the name is already taken.
func GroupExists(group string) string {
	return fmt.Sprintf("Group %s already exists.", group)
}

// GroupJoined confirms a join to the new member.
func GroupJoined(group string) string {
	return fmt.Sprintf("Joined group %s successfully.", group)
}

// GroupLeft confirms a leave to the departing member.
func GroupLeft(group string) string {
	return fmt.Sprintf("Left group %s successfully.", group)
}

// GroupMissing tells a requester the named group does not exist.
func GroupMissing(group string) string {
	return fmt.Sprintf("Group %s does not exist.", group)
}

// NotAMemberLeave is the notice for leaving a group you never joined.
func NotAMemberLeave(group string) string {
	return fmt.Sprintf("You're not a member of group %s.", group)
}

// NotAMemberSend is the notice for messaging a group you never joined.
func NotAMemberSend(group string) string {
	return fmt.Sprintf("You are not a member of group %s.", group)
}
