package models

import "strings"

// CommandType enumerates the WhatsApp commands the yard answers.
type CommandType string

const (
	CommandStatus  CommandType = "status"
	CommandBoard   CommandType = "painel"
	CommandSummary CommandType = "resumo"
	CommandAdvance CommandType = "avancar"
	CommandHelp    CommandType = "ajuda"
	CommandUnknown CommandType = "unknown"
)

var commandAliases = map[string]CommandType{
	"status":     CommandStatus,
	"placa":      CommandStatus,
	"painel":     CommandBoard,
	"quadro":     CommandBoard,
	"resumo":     CommandSummary,
	"fechamento": CommandSummary,
	"avancar":    CommandAdvance,
	"avançar":    CommandAdvance,
	"ajuda":      CommandHelp,
	"menu":       CommandHelp,
	"help":       CommandHelp,
}

// Command represents a parsed instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
// The leading slash is optional.
func ParseCommand(message string) Command {
	cmd := Command{Type: CommandUnknown, Raw: message}

	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(message)))
	if len(tokens) == 0 {
		return cmd
	}

	if t, ok := commandAliases[strings.TrimPrefix(tokens[0], "/")]; ok {
		cmd.Type = t
	}
	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}
	return cmd
}

// RequiresOperator reports whether the command changes yard state.
func (c Command) RequiresOperator() bool {
	return c.Type == CommandAdvance
}
