package session

import (
	"fmt"
	"strings"
)

// Action is what a typed command resolves to.
type Action int

const (
	ActionNone Action = iota
	ActionHelp
	ActionClear
	ActionHistory
	ActionScanHint
	ActionUnknown
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionHelp:
		return "help"
	case ActionClear:
		return "clear"
	case ActionHistory:
		return "history"
	case ActionScanHint:
		return "scan-hint"
	case ActionUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// historyLimit caps how many prior commands the history command lists.
const historyLimit = 10

// Canned terminal texts.
const (
	WelcomeText = "> Initializing CyberShield Engine...\n> Systems online. All defense protocols active.\n> Ready to analyze files for threats.\n\nWelcome, Operator. 🚀\n\nUpload a file or type 'help' for available commands."

	ClearedText = "> Terminal cleared. All buffers flushed.\n\n\"Ready for next operation, Operator.\""

	HelpText = "> Available commands:\n\n• scan [file] - Scan a file for threats\n• quarantine [file] - Quarantine suspicious file\n• history - View scan history\n• clear - Clear terminal\n• help - Show this message\n\nUse Ctrl+K for command palette. 💻\n\n\"All systems operational. Ready for commands.\""

	ScanHintText = "> Use drag & drop or the file selector to scan files."

	NoHistoryText = "No commands yet"
)

// Outcome is the interpreter's decision for one input line.
type Outcome struct {
	Action Action
	// Input is the command as typed.
	Input string
	// Reply is the system message to append. Empty for ActionClear and ActionNone.
	Reply string
}

// Interpret maps raw to an action. prior holds earlier commands, most recent
// first. Keywords match case-insensitively after trimming; the unknown-command
// reply echoes raw verbatim.
func Interpret(raw string, prior []string) Outcome {
	cmd := strings.ToLower(strings.TrimSpace(raw))
	if cmd == "" {
		return Outcome{Action: ActionNone, Input: raw}
	}

	switch {
	case cmd == "help":
		return Outcome{Action: ActionHelp, Input: raw, Reply: HelpText}
	case cmd == "clear":
		return Outcome{Action: ActionClear, Input: raw}
	case cmd == "history":
		return Outcome{Action: ActionHistory, Input: raw, Reply: historyReply(prior)}
	case strings.HasPrefix(cmd, "scan"):
		return Outcome{Action: ActionScanHint, Input: raw, Reply: ScanHintText}
	default:
		return Outcome{
			Action: ActionUnknown,
			Input:  raw,
			Reply:  fmt.Sprintf("> Error: Unknown command '%s'\n\nType 'help' for available commands.", raw),
		}
	}
}

func historyReply(prior []string) string {
	recent := prior
	if len(recent) > historyLimit {
		recent = recent[:historyLimit]
	}
	body := strings.Join(recent, "\n")
	if body == "" {
		body = NoHistoryText
	}
	return fmt.Sprintf("> Command history:\n\n%s\n\n\"History buffer retrieved.\"", body)
}
