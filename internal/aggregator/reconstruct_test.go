package aggregator

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/pable/academystats/internal/accounts"
	"github.com/pable/academystats/internal/model"
)

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func apiName(name string) string {
	return strings.ReplaceAll(name, " ", "+")
}

// joinEvent builds a join the way the API words it.
func joinEvent(slot, account, turn int, name string) model.Event {
	return model.Event{
		Kind:        model.EventJoined,
		Description: fmt.Sprintf("%s has joined the game in slot %d", apiName(name), slot),
		Turn:        turn,
		SlotID:      slot,
		AccountID:   account,
	}
}

func resignEvent(slot, account, turn int, name string) model.Event {
	return model.Event{
		Kind:        model.EventResigned,
		Description: apiName(name) + " has resigned the game",
		Turn:        turn, SlotID: slot, AccountID: account,
	}
}

func dropEvent(slot, account, turn int, name string) model.Event {
	return model.Event{
		Kind:        model.EventDropped,
		Description: apiName(name) + " has been dropped from the game",
		Turn:        turn, SlotID: slot, AccountID: account,
	}
}

func deathEvent(slot, account, turn int) model.Event {
	return model.Event{
		Kind:        model.EventDied,
		Description: fmt.Sprintf("The player in slot %d is now dead", slot),
		Turn:        turn, SlotID: slot, AccountID: account,
	}
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func aliveInfo(slot, rank, turn int, user string) model.PlayerInfo {
	return model.PlayerInfo{
		SlotID: slot, Username: user, FinishRank: rank,
		Score: model.InfoScore{
			Turn:          turn,
			CapitalShips:  intp(12),
			Freighters:    intp(4),
			Planets:       intp(30),
			Starbases:     intp(3),
			MilitaryScore: floatp(15000),
			Percent:       floatp(42.5),
		},
	}
}

func deadInfo(slot, rank, turn int) model.PlayerInfo {
	return model.PlayerInfo{
		SlotID: slot, Username: model.OccupantDead, FinishRank: rank,
		Score: model.InfoScore{Turn: turn},
	}
}

func reconstruct(t *testing.T, events []model.Event, infos []model.PlayerInfo) *Result {
	t.Helper()
	res, err := Reconstruct("101", events, infos, accounts.New(), quietLog())
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	return res
}

func TestReconstruct_TwoPlayerGame(t *testing.T) {
	events := []model.Event{
		{Kind: model.EventCreated, Description: "Game created", Turn: 0},
		joinEvent(1, 500, 0, "Alice"),
		joinEvent(2, 600, 0, "Bob the Builder"),
		{Kind: model.EventStarted, Description: "Game started", Turn: 1},
		deathEvent(2, 600, 40),
		{Kind: model.EventWon, Description: "Alice has won", Turn: 60},
	}
	infos := []model.PlayerInfo{
		aliveInfo(1, 1, 60, "alice"),
		deadInfo(2, 2, 40),
	}

	res := reconstruct(t, events, infos)

	if len(res.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(res.Players))
	}
	alice := res.Players["Alice"]
	if alice == nil {
		t.Fatal("Alice missing")
	}
	if len(alice.Race) != 1 || alice.Race[0] != "The Solar Federation" {
		t.Errorf("Alice race: %v", alice.Race)
	}
	if len(alice.Status) != 1 || alice.Status[0] != (model.StatusEntry{Label: model.LabelAlive, Turn: 60}) {
		t.Errorf("Alice status: %v", alice.Status)
	}
	if alice.Score == nil || alice.Score.Finished != 1 || alice.Score.Rank != 1 {
		t.Errorf("Alice score: %+v", alice.Score)
	}

	bob := res.Players["Bob the Builder"]
	if bob == nil {
		t.Fatal("Bob the Builder missing (name should have '+' replaced by spaces)")
	}
	if len(bob.Status) != 1 || bob.Status[0] != (model.StatusEntry{Label: model.LabelDead, Turn: 40}) {
		t.Errorf("Bob status: %v (dead seats get no alive entry)", bob.Status)
	}
	if bob.Score == nil || bob.Score.Finished != 0 || bob.Score.Rank != 2 {
		t.Errorf("Bob score: %+v", bob.Score)
	}
	if len(res.Unrecognized) != 0 {
		t.Errorf("expected no unrecognized events, got %v", res.Unrecognized)
	}
}

// TestReconstruct_RejoinedSlot: X drops from slot 3, Y takes it over. The
// final seat belongs to Y; X keeps the race and the drop.
func TestReconstruct_RejoinedSlot(t *testing.T) {
	events := []model.Event{
		joinEvent(3, 10, 1, "Xavier"),
		dropEvent(3, 10, 10, "Xavier"),
		joinEvent(3, 20, 12, "Yvonne"),
	}
	infos := []model.PlayerInfo{aliveInfo(3, 1, 80, "yvonne")}

	// Same outcome whichever order the API returns the events in.
	for label, evs := range map[string][]model.Event{
		"chronological": events,
		"reversed":      {events[2], events[1], events[0]},
	} {
		t.Run(label, func(t *testing.T) {
			res := reconstruct(t, evs, infos)
			if res.Occupants[3] != "Yvonne" {
				t.Errorf("slot 3 occupant: want Yvonne, got %q", res.Occupants[3])
			}
			x := res.Players["Xavier"]
			if x == nil {
				t.Fatal("Xavier missing")
			}
			if x.Score != nil {
				t.Errorf("Xavier should have no score, got %+v", x.Score)
			}
			if len(x.Status) != 1 || x.Status[0].Label != model.LabelDropped || x.Status[0].Turn != 10 {
				t.Errorf("Xavier status: %v", x.Status)
			}
			if x.FirstRace() != "The Empire of the Birds" {
				t.Errorf("Xavier race: %v", x.Race)
			}
			y := res.Players["Yvonne"]
			if y == nil || y.Score == nil || y.Score.Rank != 1 {
				t.Fatalf("Yvonne score: %+v", y)
			}
			if len(y.Status) != 1 || y.Status[0].Label != model.LabelAlive {
				t.Errorf("Yvonne status: %v", y.Status)
			}
		})
	}
}

// TestReconstruct_RepeatJoinAppendsRace: every join adds a race entry,
// including a second join of the same player into the same slot.
func TestReconstruct_RepeatJoinAppendsRace(t *testing.T) {
	events := []model.Event{
		joinEvent(5, 1, 1, "Zed"),
		resignEvent(5, 1, 4, "Zed"),
		joinEvent(5, 1, 6, "Zed"),
	}
	res := reconstruct(t, events, []model.PlayerInfo{aliveInfo(5, 1, 30, "zed")})

	zed := res.Players["Zed"]
	want := []string{"The Robotic Imperium", "The Robotic Imperium"}
	if len(zed.Race) != len(want) {
		t.Fatalf("race entries: want %v, got %v", want, zed.Race)
	}
	for i := range want {
		if zed.Race[i] != want[i] {
			t.Errorf("race[%d]: want %q, got %q", i, want[i], zed.Race[i])
		}
	}
	if len(zed.Status) != 2 {
		t.Errorf("expected resigned + alive, got %v", zed.Status)
	}
}

// TestReconstruct_DeathUsesLatestJoinName: the account re-joined under a
// new name; the death resolves to the later name even though that join
// comes first in the slice.
func TestReconstruct_DeathUsesLatestJoinName(t *testing.T) {
	events := []model.Event{
		deathEvent(4, 77, 50),
		joinEvent(6, 77, 9, "Renamed"),
		joinEvent(4, 77, 2, "Original"),
	}
	infos := []model.PlayerInfo{deadInfo(4, 3, 50), deadInfo(6, 2, 50)}
	res := reconstruct(t, events, infos)

	r := res.Players["Renamed"]
	if r == nil || len(r.Status) != 1 || r.Status[0].Label != model.LabelDead {
		t.Fatalf("Renamed should carry the death, got %+v", r)
	}
	if o := res.Players["Original"]; len(o.Status) != 0 {
		t.Errorf("Original should have no status, got %v", o.Status)
	}
}

func TestReconstruct_UnrecognizedEventsDoNotAbort(t *testing.T) {
	events := []model.Event{
		joinEvent(1, 1, 0, "Solo"),
		{Kind: model.EventUnknown4, Description: "mystery four", Turn: 3},
		{Kind: model.EventUnknown9, Description: "mystery nine", Turn: 4},
		{Kind: 11, Description: "future kind", Turn: 5},
		{Kind: model.EventWinCondition, Description: "win condition", Turn: 6},
	}
	res := reconstruct(t, events, []model.PlayerInfo{aliveInfo(1, 1, 10, "solo")})

	if len(res.Unrecognized) != 3 {
		t.Fatalf("expected 3 unrecognized events, got %d", len(res.Unrecognized))
	}
	kinds := []model.EventKind{4, 9, 11}
	for i, k := range kinds {
		if res.Unrecognized[i].Kind != k {
			t.Errorf("unrecognized[%d]: want kind %d, got %d", i, k, res.Unrecognized[i].Kind)
		}
	}
	if res.Players["Solo"].Score == nil {
		t.Error("processing should continue past unrecognized events")
	}
}

func TestReconstruct_Errors(t *testing.T) {
	tests := []struct {
		name    string
		events  []model.Event
		infos   []model.PlayerInfo
		wantErr error
	}{
		{
			name:    "seat without join",
			events:  []model.Event{joinEvent(1, 1, 0, "Only")},
			infos:   []model.PlayerInfo{aliveInfo(1, 1, 9, "only"), aliveInfo(2, 2, 9, "ghost")},
			wantErr: ErrSlotNeverJoined,
		},
		{
			name:    "join into unknown slot",
			events:  []model.Event{joinEvent(8, 1, 0, "Stray")},
			wantErr: ErrUnknownSlot,
		},
		{
			name:    "join without marker phrase",
			events:  []model.Event{{Kind: model.EventJoined, Description: "garbled", SlotID: 1}},
			wantErr: ErrUnparsableEvent,
		},
		{
			name: "resign without marker phrase",
			events: []model.Event{
				joinEvent(1, 1, 0, "Quitter"),
				{Kind: model.EventResigned, Description: "Quitter left", SlotID: 1, Turn: 3},
			},
			wantErr: ErrUnparsableEvent,
		},
		{
			name:    "death of unknown account",
			events:  []model.Event{deathEvent(1, 999, 5)},
			wantErr: accounts.ErrUnknownAccount,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Reconstruct("7", tc.events, tc.infos, accounts.New(), quietLog())
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}

// TestReconstruct_PlayerSwitchesSeat: Alice resigns slot 1 and later
// takes slot 4, which she finishes in first place. Slot 1 ends dead.
// The live seat's score is kept whatever order the seats are listed in.
func TestReconstruct_PlayerSwitchesSeat(t *testing.T) {
	events := []model.Event{
		joinEvent(1, 10, 1, "Alice"),
		resignEvent(1, 10, 10, "Alice"),
		joinEvent(4, 10, 12, "Alice"),
	}
	orders := map[string][]model.PlayerInfo{
		"dead seat first": {deadInfo(1, 3, 90), aliveInfo(4, 1, 90, "alice")},
		"live seat first": {aliveInfo(4, 1, 90, "alice"), deadInfo(1, 3, 90)},
	}
	for label, infos := range orders {
		t.Run(label, func(t *testing.T) {
			log, hook := logtest.NewNullLogger()
			res, err := Reconstruct("101", events, infos, accounts.New(), log)
			if err != nil {
				t.Fatalf("Reconstruct: %v", err)
			}
			alice := res.Players["Alice"]
			if alice.Score == nil || alice.Score.Finished != 1 || alice.Score.Rank != 1 {
				t.Fatalf("want the finished rank-1 score, got %+v", alice.Score)
			}
			if len(alice.Race) != 2 || alice.Race[1] != model.Races[4] {
				t.Errorf("races: %v", alice.Race)
			}
			want := []model.StatusEntry{{Label: model.LabelResigned, Turn: 10}, {Label: model.LabelAlive, Turn: 90}}
			if len(alice.Status) != len(want) {
				t.Fatalf("status: want %v, got %v", want, alice.Status)
			}
			for i := range want {
				if alice.Status[i] != want[i] {
					t.Errorf("status[%d]: want %v, got %v", i, want[i], alice.Status[i])
				}
			}

			e := hook.LastEntry()
			if e == nil || e.Level != logrus.WarnLevel || e.Data["player"] != "Alice" || e.Data["slot"] != 1 {
				t.Errorf("expected a seat collision warning for slot 1, got %+v", e)
			}
		})
	}
}

// TestReconstruct_TwoLiveSeatsKeepFirst: with two occupied seats the
// first listed seat's score stays.
func TestReconstruct_TwoLiveSeatsKeepFirst(t *testing.T) {
	events := []model.Event{joinEvent(1, 1, 0, "Twice"), joinEvent(2, 1, 0, "Twice")}
	res := reconstruct(t, events, []model.PlayerInfo{
		aliveInfo(2, 2, 9, "twice"),
		aliveInfo(1, 1, 9, "twice"),
	})
	if got := res.Players["Twice"].Score.Rank; got != 2 {
		t.Errorf("want rank 2 from the first listed seat, got %d", got)
	}
}

func TestReconstruct_UnrecognizedKindIsLogged(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	events := []model.Event{
		joinEvent(1, 1, 0, "Solo"),
		{Kind: model.EventUnknown9, Description: "mystery nine", Turn: 4},
	}
	if _, err := Reconstruct("5", events, []model.PlayerInfo{aliveInfo(1, 1, 10, "solo")}, accounts.New(), log); err != nil {
		t.Fatal(err)
	}
	e := hook.LastEntry()
	if e == nil || e.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning, got %+v", e)
	}
	if e.Data["kind"] != "unknown(9)" || e.Data["game"] != model.GameID("5") {
		t.Errorf("fields: %v", e.Data)
	}
}

// TestReconstruct_ResolverSpansGames: a death in a later game can resolve
// an account whose join was seen in an earlier game of the same run.
func TestReconstruct_ResolverSpansGames(t *testing.T) {
	r := accounts.New()
	log := quietLog()

	if _, err := Reconstruct("1", []model.Event{joinEvent(2, 55, 0, "Veteran")},
		[]model.PlayerInfo{aliveInfo(2, 1, 20, "veteran")}, r, log); err != nil {
		t.Fatalf("first game: %v", err)
	}
	res, err := Reconstruct("2", []model.Event{
		joinEvent(1, 66, 0, "Rookie"),
		deathEvent(3, 55, 7),
	}, []model.PlayerInfo{aliveInfo(1, 1, 20, "rookie")}, r, log)
	if err != nil {
		t.Fatalf("second game: %v", err)
	}
	v := res.Players["Veteran"]
	if v == nil || len(v.Status) != 1 || v.Status[0].Label != model.LabelDead {
		t.Fatalf("Veteran death not attributed: %+v", v)
	}
	if len(v.Race) != 0 {
		t.Errorf("Veteran did not join game 2, race should be empty: %v", v.Race)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Alice ", "Alice"},
		{"Big+Bad+Wolf ", "Big Bad Wolf"},
		{"Trailing+ +", "Trailing"},
		{"plain", "plain"},
	}
	for _, tc := range tests {
		if got := normalizeName(tc.in); got != tc.want {
			t.Errorf("normalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
