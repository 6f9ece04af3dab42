package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestSortGameIDs(t *testing.T) {
	ids := []GameID{"100", "x", "9", "20", "a"}
	SortGameIDs(ids)
	want := []GameID{"9", "20", "100", "a", "x"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("want %v, got %v", want, ids)
		}
	}
}

func TestGameStatusJSON(t *testing.T) {
	data, err := json.Marshal(Game{ID: "1", Status: StatusOnHold})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"status":"On Hold"`) {
		t.Errorf("status label missing: %s", data)
	}
	if strings.Contains(string(data), "winner") {
		t.Errorf("empty winner should be omitted: %s", data)
	}

	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		t.Fatal(err)
	}
	if g.Status != StatusOnHold {
		t.Errorf("round trip: %v", g.Status)
	}
	if err := json.Unmarshal([]byte(`{"status":"Bogus"}`), &g); err == nil {
		t.Error("expected error for unknown label")
	}
}

func TestParseGameStatus(t *testing.T) {
	if s, err := ParseGameStatus(3); err != nil || s != StatusFinished {
		t.Errorf("3: %v %v", s, err)
	}
	if _, err := ParseGameStatus(7); err == nil {
		t.Error("expected error for code 7")
	}
}

func TestScoreRecordJSON(t *testing.T) {
	data, err := json.Marshal(ScoreRecord{Finished: 0, Rank: 4})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"finished":0,"rank":4}` {
		t.Errorf("unfinished: %s", data)
	}

	planets := 12
	data, err = json.Marshal(ScoreRecord{Finished: 1, Rank: 1, Planets: &planets})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if len(m) != 8 {
		t.Errorf("want 8 keys, got %d: %s", len(m), data)
	}
	if m["planets"] != float64(12) || m["freighters"] != nil {
		t.Errorf("fields: %s", data)
	}
}

func TestSetScoreOnce(t *testing.T) {
	rec := NewPlayerGameRecord()
	if err := rec.SetScore(ScoreRecord{Finished: 1, Rank: 1}); err != nil {
		t.Fatal(err)
	}
	if err := rec.SetScore(ScoreRecord{Finished: 1, Rank: 2}); !errors.Is(err, ErrScoreAlreadySet) {
		t.Fatalf("want ErrScoreAlreadySet, got %v", err)
	}
	if rec.Score.Rank != 1 {
		t.Errorf("score replaced: %+v", rec.Score)
	}
}

func TestFinalStatus(t *testing.T) {
	rec := NewPlayerGameRecord()
	if _, ok := rec.FinalStatus(); ok {
		t.Error("empty record has no final status")
	}
	rec.AddStatus(LabelResigned, 40)
	rec.AddStatus(LabelAlive, 10)
	rec.AddStatus(LabelDead, 40)
	s, _ := rec.FinalStatus()
	if s.Label != LabelDead || s.Turn != 40 {
		t.Errorf("got %+v", s)
	}
}

func TestNewRecordSerializesEmptyLists(t *testing.T) {
	data, err := json.Marshal(NewPlayerGameRecord())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"race":[],"status":[]}` {
		t.Errorf("got %s", data)
	}
}

func TestAddPlayersNeverOverwrites(t *testing.T) {
	snap := NewSnapshot()
	first := GamePlayers{}
	first.Record("Alice").AddRace("The Lizard Alliance")
	if err := snap.AddPlayers("1", first); err != nil {
		t.Fatal(err)
	}

	second := GamePlayers{}
	second.Record("Bob")
	second.Record("Alice").AddRace("The Fascist Empire")
	err := snap.AddPlayers("1", second)
	if !errors.Is(err, ErrRecordExists) {
		t.Fatalf("want ErrRecordExists, got %v", err)
	}
	if got := snap.Players["Alice"]["1"].FirstRace(); got != "The Lizard Alliance" {
		t.Errorf("record replaced: %s", got)
	}
	if _, ok := snap.Players["Bob"]; ok {
		t.Error("a rejected merge must not add any record")
	}

	if err := snap.AddPlayers("2", second); err != nil {
		t.Fatalf("other game: %v", err)
	}
	if len(snap.Players["Alice"]) != 2 {
		t.Errorf("Alice games: %d", len(snap.Players["Alice"]))
	}
}

func TestAddGame(t *testing.T) {
	snap := NewSnapshot()
	if err := snap.AddGame(Game{ID: "5"}); err != nil {
		t.Fatal(err)
	}
	if err := snap.AddGame(Game{ID: "5"}); err == nil {
		t.Error("expected duplicate error")
	}
	if snap.GameCount != 1 {
		t.Errorf("gamecount: %d", snap.GameCount)
	}
}

func TestEventKindRecognized(t *testing.T) {
	for k, want := range map[EventKind]bool{1: true, 3: true, 4: false, 7: true, 9: false, 10: true, 11: false} {
		if got := k.Recognized(); got != want {
			t.Errorf("kind %d: want %v", k, want)
		}
	}
}
