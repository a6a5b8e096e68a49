package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
	"github.com/yourusername/prana-whatsapp-bot/internal/infrastructure/storage"
)

type echoDispatcher struct {
	got []string
}

func (e *echoDispatcher) Process(ctx context.Context, userID, message string) string {
	e.got = append(e.got, userID+"|"+message)
	return "ok " + message
}

func (e *echoDispatcher) History(ctx context.Context, userID string) ([]entity.ConversationTurn, error) {
	return nil, nil
}

func (e *echoDispatcher) ClearHistory(ctx context.Context, userID string) error { return nil }

func (e *echoDispatcher) GenerativeAvailable() bool { return false }

func TestNewLogger(t *testing.T) {
	l, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = newLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = newLogger("loud", false)
	assert.Error(t, err)
}

func TestRunChat(t *testing.T) {
	d := &echoDispatcher{}
	in := strings.NewReader("hola\n\n  que shots tienen \nSALIR\nnunca\n")
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), d, in, &out, "u1"))

	assert.Equal(t, []string{"u1|hola", "u1|que shots tienen"}, d.got)
	assert.Contains(t, out.String(), "🤖 Prana: ok hola")
	assert.Contains(t, out.String(), "¡Gracias por visitar Prana Juice Bar!")
}

func TestRunChat_EOF(t *testing.T) {
	d := &echoDispatcher{}
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), d, strings.NewReader("hola"), &out, "u1"))
	assert.Equal(t, []string{"u1|hola"}, d.got)
}

func TestRunScript(t *testing.T) {
	d := &echoDispatcher{}
	var out bytes.Buffer

	runScript(context.Background(), d, &out, "quick", quickScript)

	require.Len(t, d.got, len(quickScript))
	assert.Equal(t, "quick|hola", d.got[0])
	assert.Contains(t, out.String(), "7. 👤 Tú: gracias")
}

func TestPruneHistory_StopsOnCancel(t *testing.T) {
	logger = zap.NewNop()
	history := storage.NewMemoryHistoryRepository(10)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		pruneHistory(ctx, history, time.Hour, time.Millisecond)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pruneHistory did not stop")
	}
}
