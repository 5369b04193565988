package backend

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestFindOrCreateClub(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id1, err := store.FindOrCreateClub(ctx, "ituacm")
	if err != nil {
		t.Fatalf("FindOrCreateClub: %v", err)
	}

	// Same name resolves to the same club, case-insensitively.
	id2, err := store.FindOrCreateClub(ctx, "ITUACM")
	if err != nil {
		t.Fatalf("FindOrCreateClub: %v", err)
	}
	if id1 != id2 {
		t.Errorf("ids differ: %d vs %d", id1, id2)
	}

	id3, err := store.FindOrCreateClub(ctx, "ituieee")
	if err != nil {
		t.Fatalf("FindOrCreateClub: %v", err)
	}
	if id3 == id1 {
		t.Error("different club should get a different id")
	}

	if _, err := store.FindOrCreateClub(ctx, "  "); err == nil {
		t.Error("blank club name should fail")
	}
}

func TestCreateEventIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	clubID, err := store.FindOrCreateClub(ctx, "ituacm")
	if err != nil {
		t.Fatalf("FindOrCreateClub: %v", err)
	}

	ev := Event{
		ClubID:    clubID,
		Title:     "Spring Festival",
		EventDate: "2025-03-15T14:00:00",
		Location:  "Merkez Anfisi",
	}

	id1, created, err := store.CreateEvent(ctx, ev)
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if !created {
		t.Fatal("first insert should create")
	}

	// Same identity: no second row, same ID back.
	id2, created, err := store.CreateEvent(ctx, ev)
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if created {
		t.Error("second insert should report duplicate")
	}
	if id2 != id1 {
		t.Errorf("duplicate returned id %d, want %d", id2, id1)
	}

	n, err := store.CountEvents(ctx)
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	if n != 1 {
		t.Errorf("CountEvents = %d, want 1", n)
	}
}

func TestCreateEventDistinctIdentity(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	clubID, _ := store.FindOrCreateClub(ctx, "ituacm")

	base := Event{ClubID: clubID, Title: "Hackathon", EventDate: "2025-04-01T10:00:00"}
	if _, created, err := store.CreateEvent(ctx, base); err != nil || !created {
		t.Fatalf("CreateEvent: created=%v err=%v", created, err)
	}

	// Different date, same title: a separate event.
	other := base
	other.EventDate = "2025-05-01T10:00:00"
	if _, created, err := store.CreateEvent(ctx, other); err != nil || !created {
		t.Errorf("different date should create: created=%v err=%v", created, err)
	}

	// Same title and date under another club: also separate.
	otherClub, _ := store.FindOrCreateClub(ctx, "ituieee")
	cross := base
	cross.ClubID = otherClub
	if _, created, err := store.CreateEvent(ctx, cross); err != nil || !created {
		t.Errorf("different club should create: created=%v err=%v", created, err)
	}
}
