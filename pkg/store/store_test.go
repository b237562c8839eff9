package store

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/slotboard/slotboard/pkg/errors"
	"github.com/slotboard/slotboard/pkg/slot"
	"github.com/slotboard/slotboard/pkg/slot/span"
)

func sampleDoc() Document {
	return Document{
		Store:    "alpha",
		PageType: "product",
		Slots: slot.Collection{
			"root": {ID: "root", Type: slot.TypeContainer, Position: slot.Position{Row: 1, Col: 1}, ColSpan: span.Of(12), IsCustom: true},
			"t": {ID: "t", ParentID: "root", Type: slot.TypeText, Position: slot.Position{Row: 1, Col: 1},
				ColSpan: span.FromRaw(map[string]any{"desktop": float64(6), "mobile": float64(12)}), Content: "hi", IsCustom: true},
		},
		Meta: map[string]any{"title": "Product page"},
	}
}

func testBackends(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Store{
		"memory": NewMemory(),
		"file":   fs,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, st := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := st.Get(ctx, "alpha", "product"); err != ErrNotFound {
				t.Errorf("missing document: err = %v, want ErrNotFound", err)
			}

			doc := sampleDoc()
			if err := st.Put(ctx, doc); err != nil {
				t.Fatalf("Put: %v", err)
			}

			got, err := st.Get(ctx, "alpha", "product")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.UpdatedAt.IsZero() {
				t.Error("Put must stamp UpdatedAt")
			}

			// The span encoding survives the backend round trip.
			if w := got.Slots["t"].ColSpan.Resolve(span.ViewportMobile); w != 12 {
				t.Errorf("mobile span after round trip = %d, want 12", w)
			}
			got.UpdatedAt = doc.UpdatedAt
			if diff := cmp.Diff(doc.Slots["t"].Content, got.Slots["t"].Content); diff != "" {
				t.Errorf("content diff:\n%s", diff)
			}

			if err := st.Delete(ctx, "alpha", "product"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := st.Get(ctx, "alpha", "product"); err != ErrNotFound {
				t.Errorf("after delete: err = %v, want ErrNotFound", err)
			}
			// Deleting again stays silent.
			if err := st.Delete(ctx, "alpha", "product"); err != nil {
				t.Errorf("double delete: %v", err)
			}
		})
	}
}

func TestStorePatchStyles(t *testing.T) {
	ctx := context.Background()

	for name, st := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.Put(ctx, sampleDoc()); err != nil {
				t.Fatal(err)
			}

			patch := map[string]string{"height": "120px", "background": "#fff"}
			if err := st.PatchStyles(ctx, "alpha", "product", "t", patch); err != nil {
				t.Fatalf("PatchStyles: %v", err)
			}

			got, err := st.Get(ctx, "alpha", "product")
			if err != nil {
				t.Fatal(err)
			}
			if got.Slots["t"].Styles["height"] != "120px" {
				t.Errorf("styles = %v, want patched height", got.Slots["t"].Styles)
			}
			// Untouched fields survive a style patch.
			if got.Slots["t"].Content != "hi" {
				t.Error("patch must not touch content")
			}

			err = st.PatchStyles(ctx, "alpha", "product", "ghost", patch)
			if !errors.Is(err, errors.ErrCodeSlotNotFound) {
				t.Errorf("patching unknown slot: %v, want SLOT_NOT_FOUND", err)
			}
		})
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Put(ctx, sampleDoc()); err != nil {
		t.Fatal(err)
	}

	got, _ := m.Get(ctx, "alpha", "product")
	s := got.Slots["t"]
	s.Content = "mutated"
	got.Slots["t"] = s

	again, _ := m.Get(ctx, "alpha", "product")
	if again.Slots["t"].Content != "hi" {
		t.Error("Get must hand out an isolated copy")
	}
}

func TestBusDeliversToSubscribers(t *testing.T) {
	ctx := context.Background()
	b := NewBus()

	var got []string
	unsub, err := b.Subscribe(ctx, func(key string) { got = append(got, key) })
	if err != nil {
		t.Fatal(err)
	}

	if err := b.Broadcast(ctx, "alpha/product"); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "alpha/product" {
		t.Errorf("delivered = %v", got)
	}

	unsub()
	if err := b.Broadcast(ctx, "alpha/category"); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Error("unsubscribed handler must not receive broadcasts")
	}
}
