package engine

type Move struct {
	Key      string
	Name     string
	Type     ElementType
	Power    int
	Accuracy int
	PP       int
	Effect   MoveEffect
	HighCrit bool
	Recoil   bool
	Desc     string
}

func (m Move) IsNil() bool {
	return m.Key == ""
}

// IsStatus reports whether this move skips damage and goes straight to its effect.
func (m Move) IsStatus() bool {
	return m.Power == 0
}

// MoveSlot is a move owned by a combatant along with its remaining PP.
type MoveSlot struct {
	Move      Move
	CurrentPP int
}

func NewMoveSlot(move Move) MoveSlot {
	return MoveSlot{Move: move, CurrentPP: move.PP}
}

func (s MoveSlot) MaxPP() int {
	return s.Move.PP
}

// STRUGGLE is used by the opponent when none of its moves have PP left.
// It has no slot, so using it costs nothing.
var STRUGGLE = Move{
	Key:      "STRUGGLE",
	Name:     "Struggle",
	Type:     TYPE_NORMAL,
	Power:    50,
	Accuracy: 100,
	PP:       1,
	Recoil:   true,
	Desc:     "Used when no PP is left. Hurts the user.",
}

const STRUGGLE_SLOT = -1
