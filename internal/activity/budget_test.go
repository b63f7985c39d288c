package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBudgetedProvider_AllowsUpToCapThenFails(t *testing.T) {
	inner := &stubProvider{response: `{"ok": true}`}
	p := NewBudgetedProvider(inner, 2)

	_, err := p.RunRaw(context.Background(), "sys", "user")
	require.NoError(t, err)
	_, err = p.RunRaw(context.Background(), "sys", "user")
	require.NoError(t, err)

	_, err = p.RunRaw(context.Background(), "sys", "user")
	assert.True(t, errors.Is(err, ErrBudgetExhausted))
	assert.Equal(t, 2, inner.calls)
}

func TestNewBudgetedProvider_ZeroCapDisablesWrapping(t *testing.T) {
	inner := &stubProvider{response: `{"ok": true}`}
	p := NewBudgetedProvider(inner, 0)
	assert.Equal(t, inner, p)
}

func TestNewBudgetedProvider_NilInnerPassesThrough(t *testing.T) {
	assert.Nil(t, NewBudgetedProvider(nil, 5))
}
