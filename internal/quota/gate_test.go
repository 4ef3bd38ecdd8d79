package quota

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/clipbrief/clipbrief/internal/identity"
)

type fakeStore struct {
	counts map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{counts: make(map[string]int)}
}

func (f *fakeStore) UploadCount(_ context.Context, id identity.Identity) (int, error) {
	return f.counts[id.Key()], nil
}

func (f *fakeStore) IncrementUploads(_ context.Context, id identity.Identity) (int, error) {
	f.counts[id.Key()]++
	return f.counts[id.Key()], nil
}

func TestVisitorQuota(t *testing.T) {
	tests := []struct {
		name          string
		used          int
		wantAllowed   bool
		wantRemaining int
	}{
		{"fresh visitor", 0, true, 10},
		{"one left", 9, true, 1},
		{"at limit", 10, false, 0},
		{"over limit", 12, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			visitor := identity.Visitor(uuid.New())
			store.counts[visitor.Key()] = tt.used

			gate := NewGate(store, nil, 10)
			st, err := gate.CheckAllowed(context.Background(), visitor)
			if err != nil {
				t.Fatalf("CheckAllowed: %v", err)
			}
			if st.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", st.Allowed, tt.wantAllowed)
			}
			if st.Used != tt.used {
				t.Errorf("Used = %d, want %d", st.Used, tt.used)
			}
			if st.Remaining != tt.wantRemaining {
				t.Errorf("Remaining = %d, want %d", st.Remaining, tt.wantRemaining)
			}
		})
	}
}

func TestAccountAlwaysAllowed(t *testing.T) {
	store := newFakeStore()
	account := identity.Account(uuid.New())
	store.counts[account.Key()] = 500

	gate := NewGate(store, nil, 10)
	st, err := gate.CheckAllowed(context.Background(), account)
	if err != nil {
		t.Fatalf("CheckAllowed: %v", err)
	}
	if !st.Allowed || !st.Unlimited {
		t.Errorf("account status = %+v, want allowed+unlimited", st)
	}
	if st.Used != 500 {
		t.Errorf("Used = %d, want 500", st.Used)
	}
}

func TestRecordUsage(t *testing.T) {
	store := newFakeStore()
	gate := NewGate(store, nil, 10)
	visitor := identity.Visitor(uuid.New())

	for want := 1; want <= 3; want++ {
		got, err := gate.RecordUsage(context.Background(), visitor)
		if err != nil {
			t.Fatalf("RecordUsage: %v", err)
		}
		if got != want {
			t.Errorf("count = %d, want %d", got, want)
		}
	}
}
