package transport

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"

	"github.com/solardawn/solar-dawn-server/game"
)

// GameServerState is the full unit of persistence: a GameState plus
// everything needed to keep minting fresh ids and replaying identical
// outcomes after a reload.
type GameServerState struct {
	SessionID     string
	ScenarioSeed  uint64
	TurnSeed      uint64
	State         *game.GameState
	NextCelestial uint32
	NextStack     uint32
	NextModule    uint32
}

// saveMagic tags the file format so a stray file doesn't get decompressed
// as if it were a save.
var saveMagic = [4]byte{'S', 'D', 'A', 'W'}

type saveEnvelope struct {
	Magic    [4]byte
	Checksum [32]byte
	Payload  []byte // lz4-compressed CBOR of GameServerState
}

func compressLZ4(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressLZ4(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zr := lz4.NewReader(bytes.NewReader(src))
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes state to path as CBOR, lz4-compressed, with a blake3 checksum
// of the compressed payload so Load can detect a truncated or corrupted
// file before trusting it.
func Save(path string, state *GameServerState) error {
	plain, err := cbor.Marshal(state)
	if err != nil {
		return fmt.Errorf("transport: encoding save state: %w", err)
	}
	compressed, err := compressLZ4(plain)
	if err != nil {
		return fmt.Errorf("transport: compressing save state: %w", err)
	}

	env := saveEnvelope{Magic: saveMagic, Checksum: blake3.Sum256(compressed), Payload: compressed}
	data, err := cbor.Marshal(env)
	if err != nil {
		return fmt.Errorf("transport: encoding save envelope: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("transport: writing save file %s: %w", path, err)
	}
	return nil
}

// Load reads and verifies a save file written by Save, decompresses it,
// and decodes the GameServerState.
func Load(path string) (*GameServerState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("transport: reading save file %s: %w", path, err)
	}

	var env saveEnvelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("transport: decoding save envelope: %w", err)
	}
	if env.Magic != saveMagic {
		return nil, fmt.Errorf("transport: %s is not a solar dawn save file", path)
	}
	if blake3.Sum256(env.Payload) != env.Checksum {
		return nil, fmt.Errorf("transport: save file %s failed checksum verification", path)
	}

	plain, err := decompressLZ4(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("transport: decompressing save state: %w", err)
	}

	var state GameServerState
	if err := cbor.Unmarshal(plain, &state); err != nil {
		return nil, fmt.Errorf("transport: decoding save state: %w", err)
	}
	return &state, nil
}
