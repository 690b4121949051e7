package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConsoleWritesPlainText(t *testing.T) {
	var out bytes.Buffer
	core, logs := observer.New(zap.InfoLevel)
	console := NewConsole(&out, WithLogger(zap.New(core)))

	console.Success("Mug added to the cart")
	console.Error("<b>Bad</b>   credentials <script>alert(1)</script>")

	require.Equal(t, "[success] Mug added to the cart\n[error] Bad credentials\n", out.String())
	require.Equal(t, []Toast{
		{Level: LevelSuccess, Message: "Mug added to the cart"},
		{Level: LevelError, Message: "Bad credentials"},
	}, console.History())

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, zap.InfoLevel, entries[0].Level)
	require.Equal(t, zap.WarnLevel, entries[1].Level)
}

func TestConsoleKeepsEntitiesReadable(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(&out)

	console.Error(`Please, make an order of the "Mug" & saucer`)
	require.Equal(t, "[error] Please, make an order of the \"Mug\" & saucer\n", out.String())
}

func TestConsoleDropsEmptyMessages(t *testing.T) {
	console := NewConsole(nil)

	console.Success("   ")
	console.Error("<br/>")
	require.Empty(t, console.History())
}
