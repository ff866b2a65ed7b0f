package models

import "strings"

// CommandType enumerates supported operator command categories.
type CommandType string

const (
	CommandSale    CommandType = "sale"
	CommandRestock CommandType = "restock"
	CommandExpense CommandType = "expense"
	CommandOrder   CommandType = "order"
	CommandDone    CommandType = "done"
	CommandReport  CommandType = "report"
	CommandStock   CommandType = "stock"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

var commandAliases = map[string]CommandType{
	"sale":     CommandSale,
	"sell":     CommandSale,
	"restock":  CommandRestock,
	"expense":  CommandExpense,
	"expenses": CommandExpense,
	"order":    CommandOrder,
	"done":     CommandDone,
	"complete": CommandDone,
	"report":   CommandReport,
	"stock":    CommandStock,
	"help":     CommandHelp,
}

// Command represents a parsed operator instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages. Only the
// command word is case-folded; arguments keep their spelling.
func ParseCommand(message string) Command {
	tokens := strings.Fields(strings.TrimSpace(message))
	cmd := Command{Type: CommandUnknown, Raw: message}

	if len(tokens) == 0 {
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	if typ, ok := commandAliases[head]; ok {
		cmd.Type = typ
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
