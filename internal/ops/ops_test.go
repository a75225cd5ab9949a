package ops

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/hpungsan/indotrip/internal/config"
	"github.com/hpungsan/indotrip/internal/db"
	"github.com/hpungsan/indotrip/internal/errors"
	"github.com/hpungsan/indotrip/internal/live"
	"github.com/hpungsan/indotrip/internal/store"
)

type testEnv struct {
	dir string
	st  *store.Store
	hub *live.Hub
	cfg *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	database, err := db.Init(dir)
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	hub := live.NewHub(8, zerolog.Nop())
	st, err := store.Open(context.Background(), database, store.Options{
		Debounce:  time.Hour,
		Publisher: hub,
		Logger:    zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close(context.Background())
		database.Close()
	})

	cfg := config.DefaultConfig()
	cfg.ExportsDir = t.TempDir()
	return &testEnv{dir: dir, st: st, hub: hub, cfg: cfg}
}

func (e *testEnv) create(t *testing.T, creator string) *CreateTripOutput {
	t.Helper()
	out, err := CreateTrip(context.Background(), e.st, e.cfg, CreateTripInput{Name: "Nusa Tenggara", CreatorName: creator})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	return out
}

func expectEvent(t *testing.T, s *live.Subscription) {
	t.Helper()
	select {
	case <-s.C:
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast")
	}
}

func expectNoEvent(t *testing.T, s *live.Subscription) {
	t.Helper()
	select {
	case msg := <-s.C:
		t.Fatalf("unexpected broadcast: %s", msg)
	default:
	}
}

func TestCreateTrip_Defaults(t *testing.T) {
	env := newTestEnv(t)

	out, err := CreateTrip(context.Background(), env.st, env.cfg, CreateTripInput{})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}

	v := out.Trip
	if len(v.ID) != InviteCodeLength || strings.ToUpper(v.ID) != v.ID {
		t.Errorf("ID = %q, want %d uppercase chars", v.ID, InviteCodeLength)
	}
	for _, r := range v.ID {
		if !strings.ContainsRune(inviteAlphabet, r) {
			t.Errorf("ID %q contains %q outside the invite alphabet", v.ID, r)
		}
	}
	if v.Name != DefaultTripName {
		t.Errorf("Name = %q, want %q", v.Name, DefaultTripName)
	}
	if v.Days != 14 {
		t.Errorf("Days = %d, want 14", v.Days)
	}
	if len(v.Members) != 1 || v.Members[0].Name != DefaultMemberName || v.Members[0].ID != out.MemberID {
		t.Errorf("Members = %+v", v.Members)
	}
	if v.Members[0].Color != "#0B8C88" {
		t.Errorf("creator color = %s", v.Members[0].Color)
	}
	if v.Itinerary != nil {
		t.Error("new trip should have no itinerary")
	}
}

func TestCreateTrip_CleansInput(t *testing.T) {
	env := newTestEnv(t)

	out, err := CreateTrip(context.Background(), env.st, env.cfg, CreateTripInput{
		Name:        "  " + strings.Repeat("é", 80) + "  ",
		CreatorName: "  Budi   Santoso ",
		Days:        5,
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	if n := utf8.RuneCountInString(out.Trip.Name); n != 50 {
		t.Errorf("name has %d runes, want 50", n)
	}
	if out.Trip.Members[0].Name != "Budi Santoso" {
		t.Errorf("creator name = %q", out.Trip.Members[0].Name)
	}
	if out.Trip.Days != 5 {
		t.Errorf("Days = %d, want 5", out.Trip.Days)
	}
}

func TestCreateTrip_DaysOutOfRange(t *testing.T) {
	env := newTestEnv(t)

	for _, days := range []int{-1, 31, 100} {
		_, err := CreateTrip(context.Background(), env.st, env.cfg, CreateTripInput{Days: days})
		if !errors.Is(err, errors.ErrInvalidRequest) {
			t.Errorf("days=%d: error = %v, want INVALID_REQUEST", days, err)
		}
	}
	if out, _ := ListTrips(context.Background(), env.st); out.Total != 0 {
		t.Errorf("rejected creates left %d trips", out.Total)
	}
}

func TestGetTrip_CaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	created := env.create(t, "Ayu")

	v, err := GetTrip(context.Background(), env.st, GetTripInput{ID: " " + strings.ToLower(created.Trip.ID) + " "})
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if v.ID != created.Trip.ID {
		t.Errorf("ID = %s, want %s", v.ID, created.Trip.ID)
	}

	_, err = GetTrip(context.Background(), env.st, GetTripInput{ID: "ZZZZZZ"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetTrip(unknown) error = %v, want NOT_FOUND", err)
	}
	_, err = GetTrip(context.Background(), env.st, GetTripInput{ID: "  "})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("GetTrip(blank) error = %v, want INVALID_REQUEST", err)
	}
}

func TestJoinTrip(t *testing.T) {
	env := newTestEnv(t)
	created := env.create(t, "Ayu")
	sub := env.hub.Subscribe(created.Trip.ID)
	defer sub.Close()

	joined, err := JoinTrip(context.Background(), env.st, JoinTripInput{ID: created.Trip.ID, Name: "Budi"})
	if err != nil {
		t.Fatalf("JoinTrip: %v", err)
	}
	if joined.Rejoined {
		t.Error("Rejoined = true for a new name")
	}
	if len(joined.Trip.Members) != 2 || joined.Trip.Members[1].Color != "#0E7490" {
		t.Errorf("Members = %+v", joined.Trip.Members)
	}
	expectEvent(t, sub)

	again, err := JoinTrip(context.Background(), env.st, JoinTripInput{ID: created.Trip.ID, Name: "  AYU "})
	if err != nil {
		t.Fatalf("JoinTrip (rejoin): %v", err)
	}
	if !again.Rejoined || again.MemberID != created.MemberID {
		t.Errorf("rejoin = %+v, want creator %s", again, created.MemberID)
	}
	if len(again.Trip.Members) != 2 {
		t.Errorf("rejoin added a member: %d", len(again.Trip.Members))
	}
	expectNoEvent(t, sub)
}

func TestJoinTrip_UnknownTrip(t *testing.T) {
	env := newTestEnv(t)
	_, err := JoinTrip(context.Background(), env.st, JoinTripInput{ID: "NOPE22", Name: "x"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestAddProposal(t *testing.T) {
	env := newTestEnv(t)
	created := env.create(t, "Ayu")

	out, err := AddProposal(context.Background(), env.st, AddProposalInput{
		TripID:   created.Trip.ID,
		MemberID: created.MemberID,
		Title:    "  Manta   point dive ",
		Note:     "Line one\nLine two",
	})
	if err != nil {
		t.Fatalf("AddProposal: %v", err)
	}

	if len(out.Trip.Proposals) != 1 {
		t.Fatalf("proposals = %d, want 1", len(out.Trip.Proposals))
	}
	p := out.Trip.Proposals[0]
	if p.ID != out.ProposalID {
		t.Errorf("proposal id = %s, want %s", p.ID, out.ProposalID)
	}
	if p.Title != "Manta point dive" || p.Category != DefaultCategory || p.Location != DefaultLocation {
		t.Errorf("proposal = %+v", p)
	}
	if p.Note != "Line one\nLine two" {
		t.Errorf("note = %q", p.Note)
	}
	if p.CreatedBy != created.MemberID || p.CreatedByName != "Ayu" {
		t.Errorf("creator = %s/%s", p.CreatedBy, p.CreatedByName)
	}
	if p.Score != 0 || p.Counts.Total() != 0 {
		t.Errorf("new proposal tally = %+v", p.Tally)
	}
}

func TestAddProposal_Rejections(t *testing.T) {
	env := newTestEnv(t)
	created := env.create(t, "Ayu")
	sub := env.hub.Subscribe(created.Trip.ID)
	defer sub.Close()

	tests := []struct {
		name  string
		input AddProposalInput
		code  errors.ErrorCode
	}{
		{"blank title", AddProposalInput{TripID: created.Trip.ID, MemberID: created.MemberID, Title: "   "}, errors.ErrInvalidRequest},
		{"no member", AddProposalInput{TripID: created.Trip.ID, Title: "x"}, errors.ErrInvalidRequest},
		{"unknown member", AddProposalInput{TripID: created.Trip.ID, MemberID: "intruder", Title: "x"}, errors.ErrUnknownMember},
		{"unknown trip", AddProposalInput{TripID: "QQQQQQ", MemberID: created.MemberID, Title: "x"}, errors.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := AddProposal(context.Background(), env.st, tc.input)
			if !errors.Is(err, tc.code) {
				t.Errorf("error = %v, want %s", err, tc.code)
			}
			if tc.code == errors.ErrUnknownMember && errors.Status(err) != 403 {
				t.Errorf("status = %d, want 403", errors.Status(err))
			}
		})
	}

	v, err := GetTrip(context.Background(), env.st, GetTripInput{ID: created.Trip.ID})
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if len(v.Proposals) != 0 {
		t.Errorf("rejected proposals were stored: %d", len(v.Proposals))
	}
	expectNoEvent(t, sub)
}

func TestCastVote_Upsert(t *testing.T) {
	env := newTestEnv(t)
	created := env.create(t, "Ayu")
	added, err := AddProposal(context.Background(), env.st, AddProposalInput{
		TripID: created.Trip.ID, MemberID: created.MemberID, Title: "Kelingking beach",
	})
	if err != nil {
		t.Fatalf("AddProposal: %v", err)
	}

	out, err := CastVote(context.Background(), env.st, CastVoteInput{
		TripID: created.Trip.ID, MemberID: created.MemberID, ProposalID: added.ProposalID, Choice: "LIKE",
	})
	if err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	if out.Proposal.Score != 2 || out.Proposal.Counts.Like != 1 {
		t.Errorf("tally after like = %+v", out.Proposal)
	}

	out, err = CastVote(context.Background(), env.st, CastVoteInput{
		TripID: created.Trip.ID, MemberID: created.MemberID, ProposalID: added.ProposalID, Choice: "no",
	})
	if err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	if out.Proposal.Score != -2 || out.Proposal.Counts.Total() != 1 {
		t.Errorf("tally after overwrite = %+v", out.Proposal)
	}
	if got := out.Trip.Proposals[0].Score; got != -2 {
		t.Errorf("view score = %d, want -2", got)
	}
}

func TestCastVote_Rejections(t *testing.T) {
	env := newTestEnv(t)
	created := env.create(t, "Ayu")
	added, err := AddProposal(context.Background(), env.st, AddProposalInput{
		TripID: created.Trip.ID, MemberID: created.MemberID, Title: "Rinjani trek",
	})
	if err != nil {
		t.Fatalf("AddProposal: %v", err)
	}

	tests := []struct {
		name  string
		input CastVoteInput
		code  errors.ErrorCode
	}{
		{"bad choice", CastVoteInput{TripID: created.Trip.ID, MemberID: created.MemberID, ProposalID: added.ProposalID, Choice: "love"}, errors.ErrInvalidRequest},
		{"no proposal", CastVoteInput{TripID: created.Trip.ID, MemberID: created.MemberID, Choice: "like"}, errors.ErrInvalidRequest},
		{"unknown proposal", CastVoteInput{TripID: created.Trip.ID, MemberID: created.MemberID, ProposalID: "nope", Choice: "like"}, errors.ErrNotFound},
		{"unknown member", CastVoteInput{TripID: created.Trip.ID, MemberID: "ghost", ProposalID: added.ProposalID, Choice: "like"}, errors.ErrUnknownMember},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CastVote(context.Background(), env.st, tc.input)
			if !errors.Is(err, tc.code) {
				t.Errorf("error = %v, want %s", err, tc.code)
			}
		})
	}
}

func TestCastVote_BroadcastsOnlyToThatTrip(t *testing.T) {
	env := newTestEnv(t)
	x := env.create(t, "Ayu")
	y := env.create(t, "Budi")
	added, err := AddProposal(context.Background(), env.st, AddProposalInput{
		TripID: x.Trip.ID, MemberID: x.MemberID, Title: "Komodo boat",
	})
	if err != nil {
		t.Fatalf("AddProposal: %v", err)
	}

	subX := env.hub.Subscribe(x.Trip.ID)
	defer subX.Close()
	subY := env.hub.Subscribe(y.Trip.ID)
	defer subY.Close()

	_, err = CastVote(context.Background(), env.st, CastVoteInput{
		TripID: x.Trip.ID, MemberID: x.MemberID, ProposalID: added.ProposalID, Choice: "like",
	})
	if err != nil {
		t.Fatalf("CastVote: %v", err)
	}

	expectEvent(t, subX)
	expectNoEvent(t, subY)
}

func TestListTrips(t *testing.T) {
	env := newTestEnv(t)
	a := env.create(t, "Ayu")
	b := env.create(t, "Budi")
	time.Sleep(2 * time.Millisecond)
	if _, err := JoinTrip(context.Background(), env.st, JoinTripInput{ID: a.Trip.ID, Name: "Citra"}); err != nil {
		t.Fatalf("JoinTrip: %v", err)
	}

	out, err := ListTrips(context.Background(), env.st)
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if out.Total != 2 {
		t.Fatalf("Total = %d, want 2", out.Total)
	}
	if out.Items[0].ID != a.Trip.ID || out.Items[0].Members != 2 {
		t.Errorf("first item = %+v, want most recently updated trip %s", out.Items[0], a.Trip.ID)
	}
	if out.Items[1].ID != b.Trip.ID {
		t.Errorf("second item = %s, want %s", out.Items[1].ID, b.Trip.ID)
	}
}
