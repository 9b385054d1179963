// Package control defines lightweight command messages used by the UI to
// request actions from the application command loop. The command-loop
// centralizes state changes so the timer controller needs no locking.
package control

// CommandType enumerates supported command operations.
type CommandType int

const (
	CmdToggle CommandType = iota
	CmdStart
	CmdPause
	CmdReset
	CmdIncrease
	CmdDecrease
	CmdTorchOn
	CmdTorchOff
)

var commandNames = map[CommandType]string{
	CmdToggle:   "toggle",
	CmdStart:    "start",
	CmdPause:    "pause",
	CmdReset:    "reset",
	CmdIncrease: "increase",
	CmdDecrease: "decrease",
	CmdTorchOn:  "torch-on",
	CmdTorchOff: "torch-off",
}

func (c CommandType) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Command is the message sent from UI to AppManager.commandLoop. The
// optional Reply channel can be used by the commandLoop to confirm
// completion back to the sender (useful for keeping UI state in sync).
type Command struct {
	Type  CommandType
	Reply chan error // optional reply channel
}
