package core

// Action represents a semantic explorer action, abstracted from physical key presses.
type Action int

const (
	ActionNone       Action = iota
	ActionLeft              // Left arrow, h
	ActionRight             // Right arrow, l
	ActionUp                // Up arrow, k
	ActionDown              // Down arrow, j
	ActionProbe             // c - toggle collision probe
	ActionRegenerate        // r - regenerate with a new seed
	ActionHelp              // ? - toggle help
	ActionQuit              // q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionProbe:
		return "Probe"
	case ActionRegenerate:
		return "Regenerate"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Direction returns the unit movement for a movement action, ok=false otherwise.
// Up is +y: world Y grows upwards.
func (a Action) Direction() (dx, dy int, ok bool) {
	switch a {
	case ActionLeft:
		return -1, 0, true
	case ActionRight:
		return 1, 0, true
	case ActionUp:
		return 0, 1, true
	case ActionDown:
		return 0, -1, true
	}
	return 0, 0, false
}

// InputFrame holds the actions triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
