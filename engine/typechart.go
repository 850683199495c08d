package engine

import "github.com/samber/lo"

type typeMatchup struct {
	strong []ElementType
	weak   []ElementType
}

// TYPE_CHART maps an attacking type to the defending types it hits hard or poorly.
// Pairs that appear in neither list are neutral.
var TYPE_CHART = map[ElementType]typeMatchup{
	TYPE_PHYSICS:     {strong: []ElementType{TYPE_CHEMISTRY, TYPE_EARTH}, weak: []ElementType{TYPE_ENGINEERING}},
	TYPE_CHEMISTRY:   {strong: []ElementType{TYPE_BIOLOGY, TYPE_EARTH}, weak: []ElementType{TYPE_PHYSICS}},
	TYPE_ENGINEERING: {strong: []ElementType{TYPE_PHYSICS}, weak: []ElementType{TYPE_MATH, TYPE_BIOLOGY}},
	TYPE_BIOLOGY:     {strong: []ElementType{TYPE_ENGINEERING}, weak: []ElementType{TYPE_CHEMISTRY, TYPE_EARTH}},
	TYPE_EARTH:       {strong: []ElementType{TYPE_BIOLOGY, TYPE_MATH}, weak: []ElementType{TYPE_PHYSICS, TYPE_CHEMISTRY}},
	TYPE_MATH:        {strong: []ElementType{TYPE_ENGINEERING}, weak: []ElementType{TYPE_INFO, TYPE_EARTH}},
	TYPE_INFO:        {strong: []ElementType{TYPE_MATH}, weak: []ElementType{TYPE_BIOLOGY}},
	TYPE_NORMAL:      {},
}

// Effectiveness returns 2, 1 or 0.5 for a move of attackType hitting defendType.
func Effectiveness(attackType ElementType, defendType ElementType) float64 {
	matchup, ok := TYPE_CHART[attackType]
	if !ok {
		return 1
	}

	effectiveness := 1.0
	if lo.Contains(matchup.strong, defendType) {
		effectiveness = 2
	}
	if lo.Contains(matchup.weak, defendType) {
		effectiveness = 0.5
	}

	return effectiveness
}
