// Package plugin discovers and executes the external action handlers bound
// to recognized gestures: each plugin is a subprocess that receives an
// Invocation over stdin and replies with an Outcome over stdout.
package plugin

import (
	"encoding/json"

	"github.com/ayusman/handtrace/internal/store"
)

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Invocation is what a recognized gesture turns into on the wire to a
// plugin subprocess. Its fields mirror the gesture-action binding stored in
// store.Action rather than a generic request shape: ActionName and Config
// are copied straight off the bound store.Action, and GestureName is filled
// in by the caller from the recognition event the binding fired on.
type Invocation struct {
	GestureName string          `json:"gesture"`
	ActionName  string          `json:"action"`
	Config      json.RawMessage `json:"config"`
	Params      json.RawMessage `json:"params,omitempty"`
}

// NewInvocation builds an Invocation from a stored gesture-action binding
// and the name of the gesture that triggered it.
func NewInvocation(action *store.Action, gestureName string) *Invocation {
	return &Invocation{
		GestureName: gestureName,
		ActionName:  action.ActionName,
		Config:      action.Config,
	}
}

// Outcome is a plugin subprocess's reply to an Invocation.
type Outcome struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
