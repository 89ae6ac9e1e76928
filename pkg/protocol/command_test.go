package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Command
	}{
		{"verb only", "/join", Command{Verb: "/join"}},
		{"verb with arg", "/join team", Command{Verb: "/join", Args: "team"}},
		{"payload keeps internal whitespace", "/broadcast hello   there", Command{Verb: "/broadcast", Args: "hello   there"}},
		{"leading whitespace before verb", "   /create team", Command{Verb: "/create", Args: "team"}},
		{"whitespace between verb and args collapsed", "/msg    bob hi", Command{Verb: "/msg", Args: "bob hi"}},
		{"tab separated", "/group\tteam\thello", Command{Verb: "/group", Args: "team\thello"}},
		{"empty line", "", Command{}},
		{"whitespace only", "   \t ", Command{}},
		{"not a slash command", "hello world", Command{Verb: "hello", Args: "world"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.line))
		})
	}
}

func TestSplitArg(t *testing.T) {
	tests := []struct {
		args      string
		wantFirst string
		wantRest  string
	}{
		{"bob hello there", "bob", "hello there"},
		{"team", "team", ""},
		{"team  padded payload", "team", "padded payload"},
		{"", "", ""},
	}

	for _, tt := range tests {
		first, rest := SplitArg(tt.args)
		assert.Equal(t, tt.wantFirst, first)
		assert.Equal(t, tt.wantRest, rest)
	}
}
