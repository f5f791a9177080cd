package coach

import (
	"context"
	"testing"

	"hhnorm/internal/hand"
	"hhnorm/internal/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct{ mock.Mock }

func (m *mockProvider) ID() string           { return "coach" }
func (m *mockProvider) Enabled() bool        { return true }
func (m *mockProvider) SupportsVision() bool { return false }
func (m *mockProvider) ExpectsJSON() bool    { return false }
func (m *mockProvider) Call(ctx context.Context, p provider.ChatPayload) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func sample() hand.ParsedHand {
	h := hand.ParsedHand{Players: hand.NewTable()}
	for i := range h.Players {
		h.Players[i].Stack = 100
	}
	h.Actions = []hand.Action{{Street: hand.Preflop, Pos: hand.CO, Move: hand.ParseMove("opens"), Size: hand.Size(2.5)}}
	return h
}

func TestMessages(t *testing.T) {
	msgs := Messages(sample(), "  should I 3bet? ")
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, SystemPrompt, msgs[0].Content)
	assert.Contains(t, msgs[1].Content, "Hand context (parsed):\nPlayers: UTG: 100bb")
	assert.Contains(t, msgs[1].Content, "Actions: Preflop CO opens 2.5bb")
	assert.True(t, len(msgs[1].Content) > 0 && msgs[1].Content[len(msgs[1].Content)-1] == '?')
}

func TestReply(t *testing.T) {
	p := new(mockProvider)
	p.On("Call", mock.Anything, mock.MatchedBy(func(cp provider.ChatPayload) bool {
		return cp.System == SystemPrompt && cp.MaxTokens == 800 && len(cp.Images) == 0
	})).Return("  Fold more.\n", nil)

	out, err := NewService(p, 0).Reply(context.Background(), sample(), "thoughts?")
	require.NoError(t, err)
	assert.Equal(t, "Fold more.", out)
	p.AssertExpectations(t)
}

func TestReplyErrors(t *testing.T) {
	_, err := NewService(nil, 0).Reply(context.Background(), sample(), "hi")
	assert.ErrorIs(t, err, ErrNoProvider)

	_, err = NewService(new(mockProvider), 0).Reply(context.Background(), sample(), "   ")
	assert.Error(t, err)
}
