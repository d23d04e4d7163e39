package service

import (
	"testing"

	"inovocb/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{domain.RedemptionPending, domain.RedemptionProcessing},
		{domain.RedemptionPending, domain.RedemptionCancelled},
		{domain.RedemptionPending, domain.RedemptionFailed},
		{domain.RedemptionProcessing, domain.RedemptionCompleted},
		{domain.RedemptionProcessing, domain.RedemptionCancelled},
		{domain.RedemptionProcessing, domain.RedemptionFailed},
		{domain.RedemptionCompleted, domain.RedemptionDelivered},
	}
	for _, tt := range allowed {
		assert.True(t, canTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	denied := []struct{ from, to string }{
		{domain.RedemptionPending, domain.RedemptionCompleted},
		{domain.RedemptionPending, domain.RedemptionDelivered},
		{domain.RedemptionCompleted, domain.RedemptionCancelled},
		{domain.RedemptionCompleted, domain.RedemptionFailed},
		{domain.RedemptionDelivered, domain.RedemptionCancelled},
		{domain.RedemptionCancelled, domain.RedemptionProcessing},
		{domain.RedemptionFailed, domain.RedemptionProcessing},
		{domain.RedemptionDelivered, domain.RedemptionDelivered},
	}
	for _, tt := range denied {
		assert.False(t, canTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	terminal := []string{domain.RedemptionDelivered, domain.RedemptionCancelled, domain.RedemptionFailed}
	all := []string{
		domain.RedemptionPending, domain.RedemptionProcessing, domain.RedemptionCompleted,
		domain.RedemptionDelivered, domain.RedemptionCancelled, domain.RedemptionFailed,
	}
	for _, from := range terminal {
		for _, to := range all {
			assert.False(t, canTransition(from, to), "%s must be terminal", from)
		}
	}
}

func TestNewRedemptionCodeShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := newRedemptionCode()
		assert.Len(t, code, 15)
		assert.Equal(t, "RV-", code[:3])
		assert.False(t, seen[code], "codes must not repeat")
		seen[code] = true
	}
}
