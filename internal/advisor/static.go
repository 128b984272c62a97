package advisor

import (
	"context"

	"github.com/Billy-Davies-2/draftkit/internal/engine"
)

// StaticAdvisor always picks the option at Index. A negative index declines.
type StaticAdvisor struct {
	Index int
}

// NewStaticAdvisor returns an advisor that picks the option at index
func NewStaticAdvisor(index int) *StaticAdvisor {
	return &StaticAdvisor{Index: index}
}

// Choose returns the configured option's name
func (a *StaticAdvisor) Choose(ctx context.Context, req engine.TieBreakRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if a.Index < 0 || a.Index >= len(req.Options) {
		return "", engine.ErrNoAdvice
	}
	return req.Options[a.Index].Candidate.Name, nil
}
