package snapshot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"PlanetWars/internal/game/domain"
)

const Version = 1

// FileName 是房间快照在目录下的文件名。
func FileName(room string) string {
	return room + ".snap.zst"
}

type Header struct {
	Version   int    `json:"version"`
	SessionID string `json:"session_id"`
	Turn      int    `json:"turn"`
}

// SnapshotV1 是一局的完整状态。只含已结算的部分，本回合已入队的指令不在其中。
type SnapshotV1 struct {
	Header Header `json:"header"`

	Players     []PlayerV1 `json:"players"`
	Planets     []PlanetV1 `json:"planets"`
	Fleets      []FleetV1  `json:"fleets"`
	NextFleetID int64      `json:"next_fleet_id"`
}

type PlayerV1 struct {
	ID    int64 `json:"id"`
	Moved bool  `json:"moved"`
	Dead  bool  `json:"dead"`
}

type PlanetV1 struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Owner int64   `json:"owner"`
	Ships int     `json:"ships"`
}

type FleetV1 struct {
	ID     int64 `json:"id"`
	Source int   `json:"source"`
	Target int   `json:"target"`
	Owner  int64 `json:"owner"`
	Ships  int   `json:"ships"`
	Turns  int   `json:"turns"`
}

func FromState(sessionID string, s *domain.State) SnapshotV1 {
	snap := SnapshotV1{
		Header:      Header{Version: Version, SessionID: sessionID, Turn: s.Turn},
		NextFleetID: int64(s.Fleets.NextID()),
	}
	for _, p := range s.Roster.Players() {
		snap.Players = append(snap.Players, PlayerV1{ID: int64(p.ID), Moved: p.Moved, Dead: p.Dead})
	}
	for _, p := range s.Planets.Planets() {
		snap.Planets = append(snap.Planets, PlanetV1{
			ID:    int(p.ID),
			Name:  p.Name,
			X:     p.Pos.X,
			Y:     p.Pos.Y,
			Owner: int64(p.Owner),
			Ships: p.Ships,
		})
	}
	snap.Fleets = make([]FleetV1, 0, s.Fleets.Len())
	for _, f := range s.Fleets.Fleets() {
		snap.Fleets = append(snap.Fleets, FleetV1{
			ID:     int64(f.ID),
			Source: int(f.Source),
			Target: int(f.Target),
			Owner:  int64(f.Owner),
			Ships:  f.Ships,
			Turns:  f.Turns,
		})
	}
	return snap
}

// ToState 重建领域状态并校验不变量。
func (s SnapshotV1) ToState() (*domain.State, error) {
	if s.Header.Version != Version {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Header.Version)
	}
	players := make([]domain.Player, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, domain.Player{ID: domain.PlayerID(p.ID), Moved: p.Moved, Dead: p.Dead})
	}
	roster, err := domain.RestoreRoster(players)
	if err != nil {
		return nil, err
	}

	planets := make([]domain.Planet, 0, len(s.Planets))
	for _, p := range s.Planets {
		planets = append(planets, domain.Planet{
			ID:    domain.PlanetID(p.ID),
			Name:  p.Name,
			Pos:   domain.Position{X: p.X, Y: p.Y},
			Owner: domain.PlayerID(p.Owner),
			Ships: p.Ships,
		})
	}
	registry, err := domain.NewRegistry(planets)
	if err != nil {
		return nil, err
	}

	fleets := make([]domain.Fleet, 0, len(s.Fleets))
	for _, f := range s.Fleets {
		fleets = append(fleets, domain.Fleet{
			ID:     domain.FleetID(f.ID),
			Source: domain.PlanetID(f.Source),
			Target: domain.PlanetID(f.Target),
			Owner:  domain.PlayerID(f.Owner),
			Ships:  f.Ships,
			Turns:  f.Turns,
		})
	}
	ledger, err := domain.RestoreLedger(fleets, domain.FleetID(s.NextFleetID))
	if err != nil {
		return nil, err
	}

	state := &domain.State{Turn: s.Header.Turn, Roster: roster, Planets: registry, Fleets: ledger}
	if err := state.CheckInvariants(); err != nil {
		return nil, err
	}
	return state, nil
}

// Encode 先写一行 header，再写 JSON 主体，整体 zstd 压缩。
func Encode(w io.Writer, snap SnapshotV1) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)

	hb, err := json.Marshal(snap.Header)
	if err != nil {
		_ = enc.Close()
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		_ = enc.Close()
		return err
	}
	if err := json.NewEncoder(bw).Encode(&snap); err != nil {
		_ = enc.Close()
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func Decode(r io.Reader) (SnapshotV1, error) {
	var snap SnapshotV1
	dec, err := zstd.NewReader(r)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	// header 行给只看头部的工具用，主体里也带一份
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	if err := json.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("json decode: %w", err)
	}
	return snap, nil
}

func WriteFile(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Encode(f, snap); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func ReadFile(path string) (SnapshotV1, error) {
	f, err := os.Open(path)
	if err != nil {
		return SnapshotV1{}, err
	}
	defer f.Close()
	return Decode(f)
}
