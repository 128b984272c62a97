package engine

import (
	"fmt"
	"sort"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

const (
	tradeUpWindow         = 10
	tradeDownWindow       = 15
	tradeUpMinGap         = 50.0
	tradeUpCompensation   = 0.6
	tradeDownMaxLoss      = 100.0
	tradeDownPickOffset   = 24
	tradeDownCompensation = 1.2
	maxTradeSuggestions   = 3
	reachGap              = 20.0
)

// ValueDropoff reports how much of the next reachable tier is left at a position
type ValueDropoff struct {
	Position    models.Position `json:"position"`
	TierIndex   int             `json:"tierIndex"`
	Remaining   int             `json:"remaining"`
	Gap         float64         `json:"gap"`
	ShouldReach bool            `json:"shouldReach"`
}

// ValueDropoffs finds, per position, the first tier that still holds a candidate
// with ADP at or after currentPick, and the ADP gap to the tier after it.
func ValueDropoffs(currentPick int, tiers map[models.Position][]models.Tier) []ValueDropoff {
	var out []ValueDropoff
	for _, pos := range tierPositions(tiers) {
		posTiers := tiers[pos]
		for i, tier := range posTiers {
			remaining := 0
			for _, c := range tier.Candidates {
				if c.EffectiveADP() >= float64(currentPick) {
					remaining++
				}
			}
			if remaining == 0 {
				continue
			}
			gap := 0.0
			if i+1 < len(posTiers) {
				gap = posTiers[i+1].FirstADP() - tier.LastADP()
			}
			out = append(out, ValueDropoff{
				Position:    pos,
				TierIndex:   tier.Index,
				Remaining:   remaining,
				Gap:         gap,
				ShouldReach: gap > reachGap,
			})
			break
		}
	}
	return out
}

func tierPositions(tiers map[models.Position][]models.Tier) []models.Position {
	var pool []models.Candidate
	for pos := range tiers {
		pool = append(pool, models.Candidate{Position: pos})
	}
	return positionsIn(pool)
}

// TradeDirection is up or down the board
type TradeDirection string

const (
	TradeUp   TradeDirection = "UP"
	TradeDown TradeDirection = "DOWN"
)

// TradeSuggestion is a pick swap worth proposing
type TradeSuggestion struct {
	Direction        TradeDirection `json:"direction"`
	CurrentPick      int            `json:"currentPick"`
	TargetPick       int            `json:"targetPick"`
	CompensationPick int            `json:"compensationPick"`
	ValueGained      float64        `json:"valueGained"`
	Description      string         `json:"description"`
}

// TradeUpSuggestions looks for earlier picks whose value jump the team's next pick can pay for
func (t *PickValueTable) TradeUpSuggestions(currentPick, nextPick int) []TradeSuggestion {
	current, ok := t.Value(currentPick)
	if !ok {
		return nil
	}
	compValue := t.valueOrZero(nextPick)

	var out []TradeSuggestion
	for target := currentPick - tradeUpWindow; target < currentPick; target++ {
		tv, ok := t.Value(target)
		if !ok {
			continue
		}
		gap := tv - current
		if gap <= tradeUpMinGap || compValue < tradeUpCompensation*gap {
			continue
		}
		out = append(out, TradeSuggestion{
			Direction:        TradeUp,
			CurrentPick:      currentPick,
			TargetPick:       target,
			CompensationPick: nextPick,
			ValueGained:      gap,
			Description:      fmt.Sprintf("Move up from %d to %d, adding pick %d", currentPick, target, nextPick),
		})
	}
	return topTrades(out)
}

// TradeDownSuggestions looks for later picks where a pick 24 slots further on covers the lost value
func (t *PickValueTable) TradeDownSuggestions(currentPick int) []TradeSuggestion {
	current, ok := t.Value(currentPick)
	if !ok {
		return nil
	}

	var out []TradeSuggestion
	for target := currentPick + 1; target <= currentPick+tradeDownWindow; target++ {
		tv, ok := t.Value(target)
		if !ok {
			continue
		}
		loss := current - tv
		if loss <= 0 || loss >= tradeDownMaxLoss {
			continue
		}
		comp := target + tradeDownPickOffset
		cv := t.valueOrZero(comp)
		if cv < tradeDownCompensation*loss {
			continue
		}
		out = append(out, TradeSuggestion{
			Direction:        TradeDown,
			CurrentPick:      currentPick,
			TargetPick:       target,
			CompensationPick: comp,
			ValueGained:      cv - loss,
			Description:      fmt.Sprintf("Move down from %d to %d and receive pick %d", currentPick, target, comp),
		})
	}
	return topTrades(out)
}

func topTrades(in []TradeSuggestion) []TradeSuggestion {
	sort.SliceStable(in, func(i, j int) bool { return in[i].ValueGained > in[j].ValueGained })
	if len(in) > maxTradeSuggestions {
		in = in[:maxTradeSuggestions]
	}
	return in
}
