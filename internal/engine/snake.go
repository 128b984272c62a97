package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidSlot is returned when a slot, round or team count cannot describe a snake pick
var ErrInvalidSlot = errors.New("invalid draft slot")

// SlotType classifies a draft slot by where it falls in the first round
type SlotType string

const (
	SlotEarly  SlotType = "EARLY"
	SlotMiddle SlotType = "MIDDLE"
	SlotLate   SlotType = "LATE"
)

func validSlot(slot, round, teams int) bool {
	return teams > 0 && slot >= 1 && slot <= teams && round >= 1
}

// PickNumber returns the overall pick for a slot in a round of a snake draft.
// Odd rounds run 1..teams, even rounds run back. Invalid input returns 0.
func PickNumber(slot, round, teams int) int {
	if !validSlot(slot, round, teams) {
		return 0
	}
	if round%2 == 1 {
		return (round-1)*teams + slot
	}
	return (round-1)*teams + (teams - slot + 1)
}

// NextPickNumber is the slot's pick in the following round
func NextPickNumber(slot, round, teams int) int {
	return PickNumber(slot, round+1, teams)
}

// RoundAndSlot inverts PickNumber. Invalid input returns zeros.
func RoundAndSlot(overall, teams int) (round, slot int) {
	if overall < 1 || teams < 1 {
		return 0, 0
	}
	round = (overall-1)/teams + 1
	idx := (overall - 1) % teams
	if round%2 == 1 {
		return round, idx + 1
	}
	return round, teams - idx
}

// ceilDiv is integer ceiling division for positive b
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// PositionType classifies slot as EARLY, MIDDLE or LATE
func PositionType(slot, teams int) SlotType {
	switch {
	case slot <= ceilDiv(teams, 3):
		return SlotEarly
	case slot <= ceilDiv(2*teams, 3):
		return SlotMiddle
	default:
		return SlotLate
	}
}

// StrategicValue scales the pick's chart value up when the wait to the next pick is short
func (t *PickValueTable) StrategicValue(slot, round, teams int) float64 {
	pick := PickNumber(slot, round, teams)
	next := NextPickNumber(slot, round, teams)
	if pick == 0 || next <= pick {
		return 0
	}
	return t.valueOrZero(pick) * (1 + 1/float64(next-pick))
}

// TurnAnalysis describes one team's position in the snake
type TurnAnalysis struct {
	Slot           int      `json:"slot"`
	Round          int      `json:"round"`
	Teams          int      `json:"teams"`
	Pick           int      `json:"pick"`
	NextPick       int      `json:"nextPick"`
	Wait           int      `json:"wait"`
	PositionType   SlotType `json:"positionType"`
	PickValue      float64  `json:"pickValue"`
	StrategicValue float64  `json:"strategicValue"`
}

// AnalyzeTurn bundles the snake arithmetic for a slot and round
func (t *PickValueTable) AnalyzeTurn(slot, round, teams int) (TurnAnalysis, error) {
	if !validSlot(slot, round, teams) {
		return TurnAnalysis{}, fmt.Errorf("slot %d round %d teams %d: %w", slot, round, teams, ErrInvalidSlot)
	}
	pick := PickNumber(slot, round, teams)
	next := NextPickNumber(slot, round, teams)
	return TurnAnalysis{
		Slot:           slot,
		Round:          round,
		Teams:          teams,
		Pick:           pick,
		NextPick:       next,
		Wait:           next - pick,
		PositionType:   PositionType(slot, teams),
		PickValue:      t.valueOrZero(pick),
		StrategicValue: t.StrategicValue(slot, round, teams),
	}, nil
}
