package devices

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand is returned by Apply for unsupported command kinds.
var ErrUnknownCommand = errors.New("unknown command")

type CommandKind string

const (
	CommandSetAutoMode     CommandKind = "setAutoMode"
	CommandSetLightOn      CommandKind = "setLightOn"
	CommandSetFireSystemOn CommandKind = "setFireSystemOn"
	CommandSetAlertMode    CommandKind = "setAlertMode"
	CommandTriggerScan     CommandKind = "triggerScan"
)

// Command is a control request against the device state. Value is ignored by triggerScan.
type Command struct {
	Kind  CommandKind
	Value bool
}

func SetAutoMode(on bool) Command     { return Command{Kind: CommandSetAutoMode, Value: on} }
func SetLightOn(on bool) Command      { return Command{Kind: CommandSetLightOn, Value: on} }
func SetFireSystemOn(on bool) Command { return Command{Kind: CommandSetFireSystemOn, Value: on} }
func SetAlertMode(on bool) Command    { return Command{Kind: CommandSetAlertMode, Value: on} }
func TriggerScan() Command            { return Command{Kind: CommandTriggerScan} }

func unknownCommand(kind CommandKind) error {
	return fmt.Errorf("%w: %q", ErrUnknownCommand, kind)
}
