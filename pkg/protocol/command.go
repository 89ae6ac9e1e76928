package protocol

import "strings"

// Command verbs understood by the server.
const (
	VerbBroadcast = "/broadcast"
	VerbMsg       = "/msg"
	VerbCreate    = "/create"
	VerbJoin      = "/join"
	VerbLeave     = "/leave"
	VerbGroup     = "/group"
)

// Command is one parsed client request. Verb is the first
// whitespace-delimited token; Args is the remainder with leading whitespace
// removed and internal whitespace preserved (message payloads may contain
// any text).
type Command struct {
	Verb string
	Args string
}

// ParseCommand tokenizes one command line. An empty or all-whitespace line
// yields an empty Verb, which handlers treat as an unknown command.
func ParseCommand(line string) Command {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return Command{}
	}
	idx := strings.IndexAny(trimmed, " \t")
	if idx < 0 {
		return Command{Verb: trimmed}
	}
	return Command{
		Verb: trimmed[:idx],
		Args: strings.TrimLeft(trimmed[idx+1:], " \t"),
	}
}

// SplitArg splits off the first whitespace-delimited token of args, returning
// it together with the remainder (leading whitespace removed). Used for verbs
// that take a name followed by free text, e.g. `/msg bob hello there`.
func SplitArg(args string) (first, rest string) {
	idx := strings.IndexAny(args, " \t")
	if idx < 0 {
		return args, ""
	}
	return args[:idx], strings.TrimLeft(args[idx+1:], " \t")
}
