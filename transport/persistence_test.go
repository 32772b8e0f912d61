package transport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solardawn/solar-dawn-server/game"
)

func sampleServerState() *GameServerState {
	s := game.NewStack(game.Zero, game.Zero, 1, "flagship")
	s.Modules[0] = game.NewModule(game.EngineDetails())
	return &GameServerState{
		SessionID:    "11111111-1111-1111-1111-111111111111",
		ScenarioSeed: 42,
		TurnSeed:     1337,
		State: &game.GameState{
			Phase:      game.PhaseMovement,
			Turn:       5,
			Players:    map[game.PlayerId]string{1: "alice"},
			Celestials: map[game.CelestialId]*game.Celestial{},
			Stacks:     map[game.StackId]*game.Stack{100: s},
		},
		NextCelestial: 3,
		NextStack:     101,
		NextModule:    1,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.save")
	want := sampleServerState()

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, want.SessionID, got.SessionID)
	assert.Equal(t, want.ScenarioSeed, got.ScenarioSeed)
	assert.Equal(t, want.TurnSeed, got.TurnSeed)
	assert.Equal(t, want.NextStack, got.NextStack)
	assert.Equal(t, want.State.Turn, got.State.Turn)
	assert.Equal(t, want.State.Phase, got.State.Phase)
	require.Contains(t, got.State.Stacks, game.StackId(100))
	assert.Equal(t, "flagship", got.State.Stacks[100].Name)
}

func TestLoadRejectsCorruptedChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.save")
	require.NoError(t, Save(path, sampleServerState()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsWrongMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-save.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a solar dawn save"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
