package templates

import "fmt"

// Target identifies which part of a list item received an interaction.
type Target uint8

const (
	TargetItem Target = iota
	TargetEdit
	TargetDelete
)

// ParseTarget reads the target names used by the UI.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "", "item", "select":
		return TargetItem, nil
	case "edit":
		return TargetEdit, nil
	case "delete":
		return TargetDelete, nil
	default:
		return TargetItem, fmt.Errorf("unknown target %q", s)
	}
}

// Event is an interaction with one list item.
type Event struct {
	Target Target
	ItemID int64
}

// Handlers are the caller-supplied callbacks. Nil callbacks are skipped.
type Handlers struct {
	OnSelect func(id int64)
	OnEdit   func(id int64)
	OnDelete func(id int64)
}

// Dispatch delivers ev to exactly one handler. Edit and delete never
// propagate to select, and they are dropped when the item hides its actions.
// It reports whether a handler ran.
func Dispatch(ev Event, item ListItem, h Handlers) bool {
	switch ev.Target {
	case TargetItem:
		return call(h.OnSelect, ev.ItemID)
	case TargetEdit:
		if !item.Actions.ShowEdit {
			return false
		}
		return call(h.OnEdit, ev.ItemID)
	case TargetDelete:
		if !item.Actions.ShowDelete {
			return false
		}
		return call(h.OnDelete, ev.ItemID)
	default:
		return false
	}
}

func call(fn func(int64), id int64) bool {
	if fn == nil {
		return false
	}
	fn(id)
	return true
}
