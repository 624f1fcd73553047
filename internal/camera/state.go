package camera

import "github.com/looplab/fsm"

// State is the lifecycle state of the camera handle.
type State string

const (
	StateClosed     State = "closed"
	StateOpened     State = "opened"
	StateConfigured State = "configured"
	StatePreviewing State = "previewing"
)

var allStates = []State{StateClosed, StateOpened, StateConfigured, StatePreviewing}

// ParamMode records how the last parameter application ended.
type ParamMode string

const (
	// ParamModeNone: parameters have not been applied on this handle yet.
	ParamModeNone ParamMode = "none"
	// ParamModeDesired: the full desired parameter set was accepted.
	ParamModeDesired ParamMode = "desired"
	// ParamModeSafe: the desired set was rejected; safe-mode parameters
	// were applied on top of the restored known-good set.
	ParamModeSafe ParamMode = "safe"
	// ParamModeUnconfigured: even safe-mode parameters were rejected; the
	// device runs with whatever it had.
	ParamModeUnconfigured ParamMode = "unconfigured"
)

const (
	evOpen         = "open"
	evConfigure    = "configure"
	evStartPreview = "start_preview"
	evStopPreview  = "stop_preview"
	evClose        = "close"
)

// newLifecycle builds the state machine. onEnter runs after every transition
// with the destination state.
func newLifecycle(onEnter func(State)) *fsm.FSM {
	return fsm.NewFSM(
		string(StateClosed),
		fsm.Events{
			{Name: evOpen, Src: []string{string(StateClosed)}, Dst: string(StateOpened)},
			{Name: evConfigure, Src: []string{string(StateOpened)}, Dst: string(StateConfigured)},
			{Name: evStartPreview, Src: []string{string(StateConfigured)}, Dst: string(StatePreviewing)},
			{Name: evStopPreview, Src: []string{string(StatePreviewing)}, Dst: string(StateConfigured)},
			{Name: evClose, Src: []string{string(StateOpened), string(StateConfigured), string(StatePreviewing)}, Dst: string(StateClosed)},
		},
		fsm.Callbacks{
			"enter_state": func(e *fsm.Event) {
				if onEnter != nil {
					onEnter(State(e.Dst))
				}
			},
		},
	)
}
