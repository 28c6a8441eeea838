package session

import (
	"testing"
	"time"
)

func TestStorePutGetDelete(t *testing.T) {
	store := NewStore(10, time.Minute)

	if _, ok := store.Get(1); ok {
		t.Fatal("expected miss for unknown user")
	}

	sess := New(1)
	sess.State = StateEnterAmount
	store.Put(sess)

	got, ok := store.Get(1)
	if !ok || got.State != StateEnterAmount {
		t.Fatalf("expected stored session, got %+v ok=%v", got, ok)
	}

	store.Delete(1)
	if _, ok := store.Get(1); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestStoreTTLExpiry(t *testing.T) {
	store := NewStore(10, 10*time.Millisecond)
	store.Put(New(7))

	time.Sleep(20 * time.Millisecond)

	if _, ok := store.Get(7); ok {
		t.Fatal("expected expired session to be dropped")
	}
}

func TestStoreEvictsOldest(t *testing.T) {
	store := NewStore(2, time.Minute)
	store.Put(New(1))
	store.Put(New(2))
	store.Put(New(3))

	if store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Len())
	}
	if _, ok := store.Get(1); ok {
		t.Fatal("expected oldest session evicted")
	}
	if _, ok := store.Get(3); !ok {
		t.Fatal("expected newest session kept")
	}
}

func TestClearedDropsPendingFields(t *testing.T) {
	sess := New(5)
	sess.State = StateConfirmRecord
	sess.PendingKind = "income"
	sess.PendingCategoryID = 3
	sess.PendingCategoryName = "Зарплата"
	sess.PendingAmount.Cents = 1200
	sess.PendingDescription = "bonus"
	sess.DescriptionSet = true

	got := sess.Cleared(StateMainMenu)
	if got.UserID != 5 || got.State != StateMainMenu {
		t.Fatalf("unexpected identity/state: %+v", got)
	}
	if got.PendingKind != "" || got.PendingCategoryID != 0 || got.PendingCategoryName != "" ||
		got.PendingAmount.Cents != 0 || got.PendingDescription != "" || got.DescriptionSet {
		t.Fatalf("pending fields not cleared: %+v", got)
	}
}
