package overlay

import "fmt"

type State string

type Event string

const (
	StateIdle      State = "idle"
	StateArmed     State = "armed"
	StateDragging  State = "dragging"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
)

const (
	EventArm     Event = "arm"
	EventPress   Event = "press"
	EventMove    Event = "move"
	EventRelease Event = "release"
	EventDiscard Event = "discard"
	EventCancel  Event = "cancel"
	EventReset   Event = "reset"
)

func Transition(current State, event Event) (State, error) {
	switch current {
	case StateIdle:
		switch event {
		case EventArm:
			return StateArmed, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateArmed:
		switch event {
		case EventPress:
			return StateDragging, nil
		case EventCancel:
			return StateCancelled, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateDragging:
		switch event {
		case EventMove:
			return StateDragging, nil
		case EventRelease:
			return StateCompleted, nil
		case EventDiscard, EventCancel:
			return StateCancelled, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateCompleted, StateCancelled:
		switch event {
		case EventReset:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
