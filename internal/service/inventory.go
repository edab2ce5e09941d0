package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/assetinv/internal/metrics"
	"github.com/erazemk/assetinv/internal/model"
	"github.com/erazemk/assetinv/internal/query"
	"github.com/erazemk/assetinv/internal/store"
)

// maxTagAttempts bounds how often Create re-derives a tag after losing a race
// on the tag_id unique index.
const maxTagAttempts = 5

const createItemOp = "create_item"

// InventoryService manages inventory items.
type InventoryService struct {
	db        *sql.DB
	tagPrefix string
	listSpec  query.Spec
	now       func() time.Time
	txMetrics metrics.Transaction
}

// NewInventoryService returns an InventoryService issuing tags with tagPrefix.
// A positive maxPageSize caps the list page size.
func NewInventoryService(db *sql.DB, tagPrefix string, maxPageSize int) *InventoryService {
	if tagPrefix == "" {
		tagPrefix = model.DefaultTagPrefix
	}
	return &InventoryService{
		db:        db,
		tagPrefix: tagPrefix,
		listSpec:  withMaxLimit(store.ItemListSpec, maxPageSize),
		now:       time.Now,
		txMetrics: metrics.Nop{},
	}
}

// WithMetrics records tag transaction timings and retries in m.
func (s *InventoryService) WithMetrics(m metrics.Transaction) *InventoryService {
	s.txMetrics = m
	return s
}

// List returns one page of items filtered, searched and sorted per q.
func (s *InventoryService) List(ctx context.Context, q url.Values) (*ListResult[model.InventoryItem], error) {
	p := s.listSpec.ParamsFromQuery(q, "sortBy")

	items, err := store.ListItems(ctx, s.db, s.listSpec, p)
	if err != nil {
		return nil, err
	}
	total, err := store.CountItems(ctx, s.db, s.listSpec, p)
	if err != nil {
		return nil, err
	}
	return newListResult(items, p.Page, total), nil
}

// Get returns a single item.
func (s *InventoryService) Get(ctx context.Context, id int64) (*model.InventoryItem, error) {
	item, err := store.GetItem(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, model.Errorf(model.ErrNotFound, "Asset not found")
	}
	return item, nil
}

// Create normalizes in, assigns the next tag and stores the item.
func (s *InventoryService) Create(ctx context.Context, in model.ItemInput) (*model.InventoryItem, error) {
	item, err := s.fromInput(in, true)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxTagAttempts; attempt++ {
		start := time.Now()
		id, err := s.insertWithNextTag(ctx, item)
		s.txMetrics.ObserveDuration(createItemOp, time.Since(start))
		if errors.Is(err, model.ErrConflict) {
			slog.Warn("tag taken, retrying", "tag", item.TagID, "attempt", attempt)
			s.txMetrics.IncrementRetries(createItemOp)
			continue
		}
		if err != nil {
			s.txMetrics.IncrementFailures(createItemOp)
			return nil, err
		}
		return store.GetItem(ctx, s.db, id)
	}
	s.txMetrics.IncrementFailures(createItemOp)
	return nil, fmt.Errorf("assigning tag: still conflicting after %d attempts", maxTagAttempts)
}

// insertWithNextTag derives the tag from the last row and inserts item in the
// same transaction.
func (s *InventoryService) insertWithNextTag(ctx context.Context, item *model.InventoryItem) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning tag transaction: %w", err)
	}
	defer tx.Rollback()

	last, err := store.LastTag(ctx, tx)
	if err != nil {
		return 0, err
	}
	item.TagID = NextTag(s.tagPrefix, last)

	id, err := store.InsertItem(ctx, tx, item)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing item: %w", err)
	}
	return id, nil
}

// Update rewrites every mutable field of an existing item and returns it.
// Fields absent from in are cleared. The tag never changes.
func (s *InventoryService) Update(ctx context.Context, id int64, in model.ItemInput) (*model.InventoryItem, error) {
	exists, err := store.ItemExists(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.Errorf(model.ErrNotFound, "Asset not found")
	}

	item, err := s.fromInput(in, false)
	if err != nil {
		return nil, err
	}
	item.ID = id

	if err := store.UpdateItem(ctx, s.db, item); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an item. A missing item is not an error.
func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	return store.DeleteItem(ctx, s.db, id)
}

// ModelNoExists reports whether any item carries modelNo.
func (s *InventoryService) ModelNoExists(ctx context.Context, modelNo string) (bool, error) {
	return store.ModelNoExists(ctx, s.db, modelNo)
}

// SerialNoExists reports whether any item carries serialNo.
func (s *InventoryService) SerialNoExists(ctx context.Context, serialNo string) (bool, error) {
	return store.SerialNoExists(ctx, s.db, serialNo)
}

// NextTag returns the tag following last. The counter is whatever follows
// prefix in last; when that is not a number the sequence restarts at 1.
func NextTag(prefix, last string) string {
	n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
	if err != nil || n < 0 {
		n = 0
	}
	return fmt.Sprintf("%s%0*d", prefix, model.TagCounterWidth, n+1)
}

// fromInput normalizes a request body. On create, status, condition and the
// remarks date get defaults; on update absent values stay empty.
func (s *InventoryService) fromInput(in model.ItemInput, create bool) (*model.InventoryItem, error) {
	item := &model.InventoryItem{
		Description:      optional(in.Description),
		Category:         optional(in.Category),
		DeptArea:         optional(in.DeptArea),
		Office:           optional(in.Office),
		Designation:      optional(in.Designation),
		Assignee:         optional(in.Assignee),
		EmailAddress:     optional(in.EmailAddress),
		MobileNumber:     optional(in.MobileNumber),
		Supplier:         optional(in.Supplier),
		Status:           optional(in.Status),
		ConditionStatus:  optional(in.ConditionStatus),
		ModelNo:          optional(in.ModelNo),
		SerialNo:         optional(in.SerialNo),
		Remarks:          optional(in.Remarks),
		ChainOfOwnership: optional(in.ChainOfOwnership),
		PreviousOwner:    optional(in.PreviousOwner),
	}

	var err error
	if item.DateIssued, err = parseDateField("date_issued", in.DateIssued); err != nil {
		return nil, err
	}
	item.DateIssued = dateOnly(item.DateIssued)
	if item.WarrantyExpiration, err = parseDateField("warranty_expiration", in.WarrantyExpiration); err != nil {
		return nil, err
	}
	item.WarrantyExpiration = dateOnly(item.WarrantyExpiration)
	if item.RemarksDate, err = parseDateField("remarks_date", in.RemarksDate); err != nil {
		return nil, err
	}

	item.UnitValue, _ = ParseAmount(in.UnitValue)
	item.Qty = ParseQty(in.Qty)
	total, ok := ParseAmount(in.TotalValue)
	if !ok {
		total = item.UnitValue.Mul(decimal.NewFromInt(int64(item.Qty)))
	}
	item.TotalValue = total

	if create {
		if item.Status == nil {
			item.Status = ptr(model.ItemStatusActive)
		}
		if item.ConditionStatus == nil {
			item.ConditionStatus = ptr(model.ItemConditionNew)
		}
		if item.RemarksDate == nil {
			now := s.now().UTC().Truncate(time.Second)
			item.RemarksDate = &now
		}
	}
	return item, nil
}

func parseDateField(field string, v any) (*time.Time, error) {
	t, err := ParseDate(v)
	if err != nil {
		return nil, model.Errorf(model.ErrValidation, "Invalid %s: %v", field, err)
	}
	return t, nil
}

func ptr[T any](v T) *T { return &v }
