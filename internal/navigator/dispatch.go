package navigator

// Action is a discrete input event.
type Action int

const (
	ActionNone Action = iota
	ActionNext
	ActionPrevious
	ActionOpen
	ActionCopyPath
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	case ActionOpen:
		return "open"
	case ActionCopyPath:
		return "copy-path"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// Keymap maps a frontend's key names to actions.
type Keymap map[string]Action

// Lookup returns the action bound to key, or ActionNone.
func (k Keymap) Lookup(key string) Action {
	if a, ok := k[key]; ok {
		return a
	}
	return ActionNone
}

// Dispatch runs the controller operation bound to a and reports whether it
// did anything. ActionQuit and ActionNone are left to the frontend.
func (c *Controller) Dispatch(a Action) bool {
	switch a {
	case ActionNext:
		return c.Next()
	case ActionPrevious:
		return c.Previous()
	case ActionOpen:
		return c.Open()
	case ActionCopyPath:
		return c.CopyPath()
	default:
		return false
	}
}
