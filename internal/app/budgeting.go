package app

import (
	"github.com/hyperifyio/vaultclip/internal/budget"
	"github.com/hyperifyio/vaultclip/internal/extract"
	"github.com/hyperifyio/vaultclip/internal/format"
)

// BudgetEstimate provides a simple view of prompt sizing and remaining headroom.
type BudgetEstimate struct {
	ModelContext   int
	PromptTokens   int
	ReservedOutput int
	Remaining      int
	Fits           bool
}

// estimateNoteBudget sizes the request the formatter would send for a.
func estimateNoteBudget(f *format.Formatter, a extract.Article) BudgetEstimate {
	system, user := f.Messages(a)
	promptTokens := budget.EstimateTokens(system) + budget.EstimateTokens(user)
	reserved := f.ReservedOutputTokens
	if reserved <= 0 {
		reserved = format.DefaultReservedOutputTokens
	}
	remaining := budget.RemainingContextWithHeadroom(f.Model, reserved, promptTokens)
	return BudgetEstimate{
		ModelContext:   budget.ModelContextTokens(f.Model),
		PromptTokens:   promptTokens,
		ReservedOutput: reserved,
		Remaining:      remaining,
		Fits:           remaining > 0,
	}
}
