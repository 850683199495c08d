package engine

// Action is a player decision submitted to a Session.
type Action interface {
	isAction()
}

// MoveAction uses the move in slot Index of the active combatant.
// SwitchTo is only read for switch-after-use moves, and only when another roster member is alive.
// Index STRUGGLE_SLOT struggles, which is only legal once every move is out of PP.
type MoveAction struct {
	Index    int
	SwitchTo int
}

// SwitchAction brings roster member Index in. It does not use up the turn.
type SwitchAction struct {
	Index int
}

// CaptureAction throws the capture device with key Device at a wild opponent.
type CaptureAction struct {
	Device string
}

type FleeAction struct{}

func (MoveAction) isAction()    {}
func (SwitchAction) isAction()  {}
func (CaptureAction) isAction() {}
func (FleeAction) isAction()    {}
