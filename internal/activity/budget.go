package activity

import (
	"context"
	"errors"

	"golang.org/x/time/rate"

	"digest-pipeline/internal/aiprovider"
)

// ErrBudgetExhausted is returned once a run's AI-call allowance is spent.
// Every processor treats an AI error as a degrade signal, not a fatal one,
// so hitting the budget mid-run falls back the same way an AI outage does.
var ErrBudgetExhausted = errors.New("ai call budget exhausted for this run")

// NewBudgetedProvider wraps inner with a hard per-run call cap: the first
// maxCalls calls pass through, every call after that fails immediately with
// ErrBudgetExhausted. A rate.Limiter with a zero refill rate models "budget"
// rather than "throughput" — this run never gets tokens back, only what it
// started with, per spec §5's "bounded AI-call budget" (not a sustained
// rate limit). maxCalls<=0 disables the cap (returns inner unwrapped); a
// nil inner is returned as-is so the AI-outage path still short-circuits
// before ever touching the limiter.
func NewBudgetedProvider(inner aiprovider.Provider, maxCalls int) aiprovider.Provider {
	if inner == nil || maxCalls <= 0 {
		return inner
	}
	return &budgetedProvider{inner: inner, limiter: rate.NewLimiter(rate.Limit(0), maxCalls)}
}

type budgetedProvider struct {
	inner   aiprovider.Provider
	limiter *rate.Limiter
}

func (b *budgetedProvider) RunRaw(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !b.limiter.Allow() {
		return "", ErrBudgetExhausted
	}
	return b.inner.RunRaw(ctx, systemPrompt, userPrompt)
}

func (b *budgetedProvider) Name() string { return b.inner.Name() }
