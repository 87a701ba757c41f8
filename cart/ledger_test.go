package cart

import (
	"errors"
	"testing"

	"github.com/junaidrashid-git/cartledger-api/events"
	"github.com/junaidrashid-git/cartledger-api/models"
	"github.com/junaidrashid-git/cartledger-api/session"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(session.NewMemoryStore(), events.NewNotifier(), "test")
}

func shirt(qty int) models.Item {
	return models.Item{
		ItemID:    "sku1",
		Name:      "Shirt",
		Quantity:  qty,
		UnitPrice: 20.00,
		Options:   map[string]string{"size": "M"},
	}
}

func TestAddOne_Validation(t *testing.T) {
	l := newTestLedger(t)

	if _, err := l.AddOne(models.Item{ItemID: "sku1", Quantity: 0, UnitPrice: 1}); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity: got %v, want ErrInvalidQuantity", err)
	}
	if _, err := l.AddOne(models.Item{ItemID: "sku1", Quantity: -2, UnitPrice: 1}); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("negative quantity: got %v, want ErrInvalidQuantity", err)
	}
	if _, err := l.AddOne(models.Item{ItemID: "sku1", Quantity: 1, UnitPrice: -0.01}); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("negative price: got %v, want ErrInvalidPrice", err)
	}
	if _, err := l.AddOne(models.Item{ItemID: "sku1", Quantity: 1, AssociatedModel: "Nope"}); !errors.Is(err, ErrInvalidAssociation) {
		t.Errorf("unknown association: got %v, want ErrInvalidAssociation", err)
	}

	// Nothing may have been written.
	if rows, _ := l.All(); len(rows) != 0 {
		t.Errorf("validation failure left %d rows behind", len(rows))
	}
}

func TestAddOne_Aggregation(t *testing.T) {
	l := newTestLedger(t)

	first, err := l.AddOne(shirt(2))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := l.AddOne(shirt(3))
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if first != second {
		t.Fatalf("same (item, options) resolved to different rows: %q vs %q", first, second)
	}

	row, err := l.Get(first)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.Quantity != 5 {
		t.Errorf("quantity = %d, want 5", row.Quantity)
	}
	if row.Total != 100.00 {
		t.Errorf("total = %v, want 100.00", row.Total)
	}
	if n, _ := l.Count(false); n != 1 {
		t.Errorf("distinct rows = %d, want 1", n)
	}
}

func TestAddOne_DifferentOptionsNewRow(t *testing.T) {
	l := newTestLedger(t)

	m, _ := l.AddOne(shirt(1))
	large := shirt(1)
	large.Options = map[string]string{"size": "L"}
	lg, err := l.AddOne(large)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if m == lg {
		t.Fatal("differing options merged into one row")
	}
	if n, _ := l.Count(false); n != 2 {
		t.Errorf("distinct rows = %d, want 2", n)
	}
}

func TestEndToEndScenario(t *testing.T) {
	l := newTestLedger(t)

	h1, err := l.AddOne(shirt(1))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if total, _ := l.Total(); total != 20.00 {
		t.Errorf("total = %v, want 20.00", total)
	}
	if n, _ := l.Count(true); n != 1 {
		t.Errorf("total items = %d, want 1", n)
	}
	if n, _ := l.Count(false); n != 1 {
		t.Errorf("distinct rows = %d, want 1", n)
	}

	again, _ := l.AddOne(shirt(2))
	if again != h1 {
		t.Fatalf("second add landed on a new row")
	}
	row, _ := l.Get(h1)
	if row.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", row.Quantity)
	}
	if total, _ := l.Total(); total != 60.00 {
		t.Errorf("total = %v, want 60.00", total)
	}

	large := shirt(1)
	large.Options = map[string]string{"size": "L"}
	h2, _ := l.AddOne(large)
	if h2 == h1 {
		t.Fatal("size L merged into size M row")
	}
	if n, _ := l.Count(false); n != 2 {
		t.Errorf("distinct rows = %d, want 2", n)
	}
}

func TestUpdate_QuantityZeroRemovesRow(t *testing.T) {
	l := newTestLedger(t)

	rowID, _ := l.AddOne(shirt(3))
	row, err := l.UpdateQuantity(rowID, 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if row != nil {
		t.Errorf("expected nil row after removal, got %+v", row)
	}
	if _, err := l.Get(rowID); !errors.Is(err, ErrRowNotFound) {
		t.Errorf("get after removal: got %v, want ErrRowNotFound", err)
	}
}

func TestUpdate_TotalRecomputation(t *testing.T) {
	l := newTestLedger(t)
	rowID, _ := l.AddOne(shirt(2))

	// Renaming must not touch the total.
	name := "Blue Shirt"
	row, err := l.Update(rowID, models.Changes{Name: &name})
	if err != nil {
		t.Fatalf("update name: %v", err)
	}
	if row.Name != "Blue Shirt" || row.Total != 40.00 {
		t.Errorf("after rename: name=%q total=%v, want Blue Shirt / 40.00", row.Name, row.Total)
	}

	// A price change must.
	price := 25.00
	row, err = l.Update(rowID, models.Changes{UnitPrice: &price})
	if err != nil {
		t.Fatalf("update price: %v", err)
	}
	if row.Total != 50.00 {
		t.Errorf("after price change: total=%v, want 50.00", row.Total)
	}

	// And a quantity change must.
	row, err = l.UpdateQuantity(rowID, 4)
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if row.Total != 100.00 {
		t.Errorf("after quantity change: total=%v, want 100.00", row.Total)
	}
}

func TestUpdate_Validation(t *testing.T) {
	l := newTestLedger(t)
	rowID, _ := l.AddOne(shirt(1))

	bad := -1.00
	if _, err := l.Update(rowID, models.Changes{UnitPrice: &bad}); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("negative price: got %v, want ErrInvalidPrice", err)
	}
	if _, err := l.UpdateQuantity("no-such-row", 2); !errors.Is(err, ErrRowNotFound) {
		t.Errorf("absent row: got %v, want ErrRowNotFound", err)
	}
}

func TestRemove_Idempotent(t *testing.T) {
	l := newTestLedger(t)
	rowID, _ := l.AddOne(shirt(1))

	ok, err := l.Remove(rowID)
	if !ok || err != nil {
		t.Fatalf("remove present row: ok=%v err=%v", ok, err)
	}
	ok, err = l.Remove(rowID)
	if !ok || err != nil {
		t.Fatalf("double remove: ok=%v err=%v", ok, err)
	}
	ok, err = l.Remove("never-existed")
	if !ok || err != nil {
		t.Fatalf("remove absent row: ok=%v err=%v", ok, err)
	}
	if rows, _ := l.All(); len(rows) != 0 {
		t.Errorf("collection not empty after removes: %d rows", len(rows))
	}
}

func TestTotalInvariant(t *testing.T) {
	l := newTestLedger(t)
	l.AddOne(models.Item{ItemID: "a", Quantity: 2, UnitPrice: 1.50})
	l.AddOne(models.Item{ItemID: "b", Quantity: 1, UnitPrice: 9.99})
	l.AddOne(models.Item{ItemID: "c", Quantity: 4, UnitPrice: 0})

	rows, err := l.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	var want float64
	for _, row := range rows {
		want += float64(row.Quantity) * row.UnitPrice
	}
	got, err := l.Total()
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if got != want {
		t.Errorf("total = %v, want %v", got, want)
	}
}

func TestDestroy(t *testing.T) {
	store := session.NewMemoryStore()
	l := New(store, nil, "test")
	l.AddOne(shirt(2))

	ok, err := l.Destroy()
	if !ok || err != nil {
		t.Fatalf("destroy: ok=%v err=%v", ok, err)
	}
	if rows, _ := l.All(); len(rows) != 0 {
		t.Errorf("rows survived destroy: %d", len(rows))
	}
	if col, _ := store.Get(session.Key("test")); col != nil {
		t.Error("store entry survived destroy")
	}
	if total, _ := l.Total(); total != 0 {
		t.Errorf("total after destroy = %v, want 0", total)
	}
}

func TestSearch(t *testing.T) {
	l := newTestLedger(t)
	red, _ := l.AddOne(models.Item{ItemID: "sku1", Name: "Shirt", Quantity: 2, UnitPrice: 20, Options: map[string]string{"color": "red"}})
	l.AddOne(models.Item{ItemID: "sku1", Name: "Shirt", Quantity: 1, UnitPrice: 20, Options: map[string]string{"color": "blue"}})

	// Empty criteria never matches the whole cart.
	rows, err := l.Search(map[string]any{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("empty criteria returned %d rows, want 0", len(rows))
	}

	rows, _ = l.Search(map[string]any{"color": "red"})
	if len(rows) != 1 || rows[0].RowID != red {
		t.Errorf("color=red returned %d rows, want the red row", len(rows))
	}

	// Superset match: every pair must hold.
	rows, _ = l.Search(map[string]any{"color": "red", "quantity": 2})
	if len(rows) != 1 {
		t.Errorf("color=red quantity=2 returned %d rows, want 1", len(rows))
	}
	rows, _ = l.Search(map[string]any{"color": "red", "quantity": 3})
	if len(rows) != 0 {
		t.Errorf("color=red quantity=3 returned %d rows, want 0", len(rows))
	}

	// JSON-decoded numbers arrive as float64.
	rows, _ = l.Search(map[string]any{"unit_price": float64(20), "item_id": "sku1"})
	if len(rows) != 2 {
		t.Errorf("unit_price=20 returned %d rows, want 2", len(rows))
	}
}

func TestAddBatch(t *testing.T) {
	l := newTestLedger(t)

	rowIDs, err := l.AddBatch([]models.Item{
		shirt(1),
		shirt(2),
		{ItemID: "sku2", Name: "Hat", Quantity: 1, UnitPrice: 5},
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(rowIDs) != 3 {
		t.Fatalf("got %d row ids, want 3", len(rowIDs))
	}
	if rowIDs[0] != rowIDs[1] {
		t.Error("identical descriptors in one batch landed on different rows")
	}
	if n, _ := l.Count(false); n != 2 {
		t.Errorf("distinct rows = %d, want 2", n)
	}
	if n, _ := l.Count(true); n != 4 {
		t.Errorf("total items = %d, want 4", n)
	}
}

func TestAddBatch_MalformedAppliesNothing(t *testing.T) {
	l := newTestLedger(t)
	l.AddOne(shirt(1))

	_, err := l.AddBatch([]models.Item{
		{ItemID: "sku2", Quantity: 1, UnitPrice: 5},
		{ItemID: "sku3", Quantity: 0, UnitPrice: 5}, // invalid
	})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("got %v, want ErrInvalidQuantity", err)
	}
	if n, _ := l.Count(false); n != 1 {
		t.Errorf("malformed batch applied %d extra rows", n-1)
	}
}

func TestNotifications_BeforeAfterPairs(t *testing.T) {
	var seen []string
	notifier := events.NewNotifier()
	notifier.Subscribe(func(evt events.Event) {
		seen = append(seen, evt.Name)
	})
	l := New(session.NewMemoryStore(), notifier, "test")

	rowID, _ := l.AddOne(shirt(1))
	l.UpdateQuantity(rowID, 2)
	l.Remove(rowID)
	l.AddBatch([]models.Item{shirt(1)})
	l.Destroy()

	want := []string{
		events.CartAdd, events.CartAdded,
		events.CartUpdate, events.CartUpdated,
		events.CartRemove, events.CartRemoved,
		events.CartBatch, events.CartBatched,
		events.CartDestroy, events.CartDestroyed,
	}
	if len(seen) != len(want) {
		t.Fatalf("saw %d events %v, want %d", len(seen), seen, len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestNotifications_PanickingObserverDoesNotCorruptState(t *testing.T) {
	notifier := events.NewNotifier()
	notifier.Subscribe(func(evt events.Event) {
		panic("observer blew up")
	})
	l := New(session.NewMemoryStore(), notifier, "test")

	rowID, err := l.AddOne(shirt(2))
	if err != nil {
		t.Fatalf("add with panicking observer: %v", err)
	}
	row, err := l.Get(rowID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", row.Quantity)
	}
}

// failingStore accepts reads but refuses writes.
type failingStore struct {
	session.Store
	fail bool
}

func (s *failingStore) Put(key string, col models.Collection) error {
	if s.fail {
		return errors.New("store is down")
	}
	return s.Store.Put(key, col)
}

func (s *failingStore) Delete(key string) error {
	if s.fail {
		return errors.New("store is down")
	}
	return s.Store.Delete(key)
}

func TestPersistenceFailure(t *testing.T) {
	store := &failingStore{Store: session.NewMemoryStore()}
	l := New(store, nil, "test")

	rowID, err := l.AddOne(shirt(1))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	store.fail = true
	if _, err := l.AddOne(shirt(1)); !errors.Is(err, ErrNotPersisted) {
		t.Errorf("add with dead store: got %v, want ErrNotPersisted", err)
	}
	ok, err := l.Remove(rowID)
	if ok {
		t.Error("remove reported success with a dead store")
	}
	if !errors.Is(err, ErrNotPersisted) {
		t.Errorf("remove with dead store: got %v, want ErrNotPersisted", err)
	}
	ok, err = l.Destroy()
	if ok || !errors.Is(err, ErrNotPersisted) {
		t.Errorf("destroy with dead store: ok=%v err=%v", ok, err)
	}

	// The committed row must still be intact.
	store.fail = false
	row, err := l.Get(rowID)
	if err != nil {
		t.Fatalf("get after failures: %v", err)
	}
	if row.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", row.Quantity)
	}
}

func TestDefaultCartName(t *testing.T) {
	l := New(session.NewMemoryStore(), nil, "")
	if l.Name() != DefaultCart {
		t.Errorf("name = %q, want %q", l.Name(), DefaultCart)
	}
}

func TestCartsAreIndependent(t *testing.T) {
	store := session.NewMemoryStore()
	a := New(store, nil, "alice")
	b := New(store, nil, "bob")

	a.AddOne(shirt(1))
	if n, _ := b.Count(false); n != 0 {
		t.Errorf("bob sees alice's rows: %d", n)
	}
	b.AddOne(shirt(5))
	if n, _ := a.Count(true); n != 1 {
		t.Errorf("alice's quantity changed: %d", n)
	}
}
