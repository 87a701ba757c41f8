package cart

import (
	"fmt"
	"sort"
	"time"

	"github.com/junaidrashid-git/cartledger-api/events"
	"github.com/junaidrashid-git/cartledger-api/models"
	"github.com/junaidrashid-git/cartledger-api/session"
)

// DefaultCart is the cart name used when the caller does not supply one.
const DefaultCart = "default"

// Ledger is the keyed collection of rows for one named cart. It owns no
// durable state itself: every operation reads the collection from the
// store, transforms it in memory, and writes it back, so sequential
// operations in one process never observe a stale collection. Cross-
// process writers race last-writer-wins; callers needing multi-writer
// safety must serialize externally.
type Ledger struct {
	store    session.Store
	notifier *events.Notifier
	name     string
}

// New builds a ledger over the given store and cart name. An empty name
// selects DefaultCart. The notifier may be nil.
func New(store session.Store, notifier *events.Notifier, name string) *Ledger {
	if name == "" {
		name = DefaultCart
	}
	return &Ledger{store: store, notifier: notifier, name: name}
}

// Name returns the cart name the ledger operates on.
func (l *Ledger) Name() string {
	return l.name
}

// All returns every row, sorted by row id so reads within one mutation
// cycle are stable. A cart that was never touched yields no rows.
func (l *Ledger) All() ([]models.Row, error) {
	col, err := l.read()
	if err != nil {
		return nil, err
	}
	rows := make([]models.Row, 0, len(col))
	for _, row := range col {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].RowID < rows[j].RowID })
	return rows, nil
}

// Get looks a row up without mutating anything.
func (l *Ledger) Get(rowID string) (*models.Row, error) {
	col, err := l.read()
	if err != nil {
		return nil, err
	}
	row, ok := col[rowID]
	if !ok {
		return nil, ErrRowNotFound
	}
	return &row, nil
}

// AddOne validates the descriptor, then either aggregates into the
// existing row for the same (item, options) pair or inserts a new one.
// It returns the row id the item landed on.
func (l *Ledger) AddOne(item models.Item) (string, error) {
	if err := validateItem(item); err != nil {
		return "", err
	}
	rowID := RowID(item.ItemID, item.Options)

	l.emit(events.CartAdd, addPayload(item, rowID))

	col, err := l.read()
	if err != nil {
		return "", err
	}
	applyAdd(col, item, rowID)
	if err := l.write(col); err != nil {
		return "", err
	}

	l.emit(events.CartAdded, addPayload(item, rowID))
	return rowID, nil
}

// AddBatch adds every descriptor in one mutation cycle. The whole batch
// is validated before anything is applied, so a malformed batch applies
// nothing. Each descriptor still aggregates independently, including
// into rows created earlier in the same batch. Notifications bracket
// the batch as a whole, not each item.
func (l *Ledger) AddBatch(items []models.Item) ([]string, error) {
	for i, item := range items {
		if err := validateItem(item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	l.emit(events.CartBatch, map[string]any{"items": items})

	col, err := l.read()
	if err != nil {
		return nil, err
	}
	rowIDs := make([]string, 0, len(items))
	for _, item := range items {
		rowID := RowID(item.ItemID, item.Options)
		applyAdd(col, item, rowID)
		rowIDs = append(rowIDs, rowID)
	}
	if err := l.write(col); err != nil {
		return nil, err
	}

	l.emit(events.CartBatched, map[string]any{"items": items, "row_ids": rowIDs})
	return rowIDs, nil
}

// Update applies the given changes to an existing row. A quantity of
// zero or less removes the row and returns nil; a quantity or price
// change recomputes the total, other changes never do. The row id is
// immutable, so option changes do not re-derive it.
func (l *Ledger) Update(rowID string, ch models.Changes) (*models.Row, error) {
	if ch.UnitPrice != nil && *ch.UnitPrice < 0 {
		return nil, ErrInvalidPrice
	}

	col, err := l.read()
	if err != nil {
		return nil, err
	}
	row, ok := col[rowID]
	if !ok {
		return nil, ErrRowNotFound
	}

	l.emit(events.CartUpdate, map[string]any{"row_id": rowID, "changes": ch})

	if ch.Quantity != nil && *ch.Quantity <= 0 {
		delete(col, rowID)
		if err := l.write(col); err != nil {
			return nil, err
		}
		l.emit(events.CartUpdated, map[string]any{"row_id": rowID, "removed": true})
		return nil, nil
	}

	if ch.Quantity != nil {
		row.Quantity = *ch.Quantity
	}
	if ch.Name != nil {
		row.Name = *ch.Name
	}
	if ch.UnitPrice != nil {
		row.UnitPrice = *ch.UnitPrice
	}
	if ch.Options != nil {
		row.Options = ch.Options
	}
	if ch.Quantity != nil || ch.UnitPrice != nil {
		row.Total = float64(row.Quantity) * row.UnitPrice
	}
	col[rowID] = row

	if err := l.write(col); err != nil {
		return nil, err
	}
	l.emit(events.CartUpdated, map[string]any{"row_id": rowID, "row": row})
	return &row, nil
}

// UpdateQuantity sets a row's absolute quantity.
func (l *Ledger) UpdateQuantity(rowID string, quantity int) (*models.Row, error) {
	return l.Update(rowID, models.Changes{Quantity: &quantity})
}

// Remove deletes a row. Removing an absent row is a no-op success, so
// the result is false only when persisting the updated collection fails.
func (l *Ledger) Remove(rowID string) (bool, error) {
	l.emit(events.CartRemove, map[string]any{"row_id": rowID})

	col, err := l.read()
	if err != nil {
		return false, err
	}
	if _, ok := col[rowID]; ok {
		delete(col, rowID)
		if err := l.write(col); err != nil {
			return false, err
		}
	}

	l.emit(events.CartRemoved, map[string]any{"row_id": rowID})
	return true, nil
}

// Destroy clears the whole cart and drops its store entry.
func (l *Ledger) Destroy() (bool, error) {
	l.emit(events.CartDestroy, nil)

	if err := l.store.Delete(session.Key(l.name)); err != nil {
		return false, fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}

	l.emit(events.CartDestroyed, nil)
	return true, nil
}

// Total sums quantity * unit price over all rows. An empty or absent
// cart totals zero.
func (l *Ledger) Total() (float64, error) {
	col, err := l.read()
	if err != nil {
		return 0, err
	}
	var total float64
	for _, row := range col {
		total += row.Total
	}
	return total, nil
}

// Count returns the summed quantities when aggregateQuantities is true,
// otherwise the number of distinct rows.
func (l *Ledger) Count(aggregateQuantities bool) (int, error) {
	col, err := l.read()
	if err != nil {
		return 0, err
	}
	if !aggregateQuantities {
		return len(col), nil
	}
	var n int
	for _, row := range col {
		n += row.Quantity
	}
	return n, nil
}

// Search returns the rows matching every key/value pair in criteria.
// Known keys match row fields, anything else matches an option. Empty
// criteria yields an empty result rather than the whole cart.
func (l *Ledger) Search(criteria map[string]any) ([]models.Row, error) {
	if len(criteria) == 0 {
		return []models.Row{}, nil
	}
	rows, err := l.All()
	if err != nil {
		return nil, err
	}
	matched := make([]models.Row, 0)
	for _, row := range rows {
		if rowMatches(row, criteria) {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

func (l *Ledger) read() (models.Collection, error) {
	col, err := l.store.Get(session.Key(l.name))
	if err != nil {
		return nil, err
	}
	if col == nil {
		col = make(models.Collection)
	}
	return col, nil
}

func (l *Ledger) write(col models.Collection) error {
	if err := l.store.Put(session.Key(l.name), col); err != nil {
		return fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return nil
}

func (l *Ledger) emit(name string, payload map[string]any) {
	if l.notifier == nil {
		return
	}
	l.notifier.Emit(events.Event{Name: name, Cart: l.name, Payload: payload})
}

func validateItem(item models.Item) error {
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if item.UnitPrice < 0 {
		return ErrInvalidPrice
	}
	if item.AssociatedModel != "" && !models.KnownAssociation(item.AssociatedModel) {
		return ErrInvalidAssociation
	}
	return nil
}

// applyAdd folds one validated descriptor into the collection: same row
// id aggregates quantities, anything else inserts a fresh row.
func applyAdd(col models.Collection, item models.Item, rowID string) {
	if row, ok := col[rowID]; ok {
		row.Quantity += item.Quantity
		row.Total = float64(row.Quantity) * row.UnitPrice
		col[rowID] = row
		return
	}
	col[rowID] = models.Row{
		RowID:           rowID,
		ItemID:          item.ItemID,
		Name:            item.Name,
		Quantity:        item.Quantity,
		UnitPrice:       item.UnitPrice,
		Total:           float64(item.Quantity) * item.UnitPrice,
		Options:         item.Options,
		AssociatedModel: item.AssociatedModel,
		AddedAt:         time.Now(),
	}
}

func addPayload(item models.Item, rowID string) map[string]any {
	return map[string]any{
		"row_id":     rowID,
		"item_id":    item.ItemID,
		"name":       item.Name,
		"quantity":   item.Quantity,
		"unit_price": item.UnitPrice,
		"options":    item.Options,
	}
}

func rowMatches(row models.Row, criteria map[string]any) bool {
	for key, want := range criteria {
		switch key {
		case "row_id":
			if row.RowID != fmt.Sprint(want) {
				return false
			}
		case "item_id":
			if row.ItemID != fmt.Sprint(want) {
				return false
			}
		case "name":
			if row.Name != fmt.Sprint(want) {
				return false
			}
		case "associated_model":
			if row.AssociatedModel != fmt.Sprint(want) {
				return false
			}
		case "quantity":
			if !numEqual(want, float64(row.Quantity)) {
				return false
			}
		case "unit_price":
			if !numEqual(want, row.UnitPrice) {
				return false
			}
		case "total":
			if !numEqual(want, row.Total) {
				return false
			}
		default:
			got, ok := row.Options[key]
			if !ok || got != fmt.Sprint(want) {
				return false
			}
		}
	}
	return true
}

// numEqual compares a caller-supplied number (JSON decodes them as
// float64) against a row field.
func numEqual(want any, got float64) bool {
	switch n := want.(type) {
	case int:
		return float64(n) == got
	case int64:
		return float64(n) == got
	case float64:
		return n == got
	default:
		return false
	}
}
