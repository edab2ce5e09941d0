package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/assetinv/internal/db"
	"github.com/erazemk/assetinv/internal/model"
	"github.com/erazemk/assetinv/internal/query"
)

func strPtr(s string) *string { return &s }

func newItem(tag string) *model.InventoryItem {
	return &model.InventoryItem{
		TagID:      tag,
		UnitValue:  decimal.RequireFromString("100"),
		Qty:        1,
		TotalValue: decimal.RequireFromString("100"),
	}
}

func TestInsertAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	issued := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	item := newItem("MLCA0001")
	item.Description = strPtr("Laptop")
	item.Category = strPtr("IT")
	item.DateIssued = &issued
	item.UnitValue = decimal.RequireFromString("1250.50")
	item.Qty = 2
	item.TotalValue = decimal.RequireFromString("2501")

	id, err := InsertItem(ctx, database, item)
	if err != nil {
		t.Fatalf("InsertItem: %v", err)
	}

	got, err := GetItem(ctx, database, id)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil {
		t.Fatal("expected item, got nil")
	}
	if got.TagID != "MLCA0001" || *got.Description != "Laptop" {
		t.Errorf("unexpected item %+v", got)
	}
	if !got.UnitValue.Equal(decimal.RequireFromString("1250.5")) {
		t.Errorf("expected unit value 1250.5, got %s", got.UnitValue)
	}
	if got.DateIssued == nil || !got.DateIssued.Equal(issued) {
		t.Errorf("expected date issued %v, got %v", issued, got.DateIssued)
	}
	if got.Office != nil || got.WarrantyExpiration != nil {
		t.Errorf("expected unset fields to be NULL, got %v %v", got.Office, got.WarrantyExpiration)
	}

	missing, err := GetItem(ctx, database, 999)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing item")
	}
}

func TestInsertItemDuplicateTag(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := InsertItem(ctx, database, newItem("MLCA0001")); err != nil {
		t.Fatal(err)
	}
	_, err := InsertItem(ctx, database, newItem("MLCA0001"))
	if !errors.Is(err, model.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLastTag(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	tag, err := LastTag(ctx, database)
	if err != nil || tag != "" {
		t.Fatalf("LastTag(empty) = %q, %v", tag, err)
	}

	InsertItem(ctx, database, newItem("MLCA0001"))
	InsertItem(ctx, database, newItem("MLCA0002"))

	tag, err = LastTag(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if tag != "MLCA0002" {
		t.Errorf("expected MLCA0002, got %q", tag)
	}
}

func TestListItemsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for i, row := range []struct{ desc, category, assignee string }{
		{"Laptop", "IT", "Ana"},
		{"Desk", "Furniture", "Ben"},
		{"Monitor", "IT", "Ben"},
	} {
		item := newItem("MLCA000" + string(rune('1'+i)))
		item.Description = strPtr(row.desc)
		item.Category = strPtr(row.category)
		item.Assignee = strPtr(row.assignee)
		if _, err := InsertItem(ctx, database, item); err != nil {
			t.Fatal(err)
		}
	}

	p := query.Params{
		Values: map[string]string{"category": "IT", "search": "ben"},
		Page:   query.Page{Page: 1, Limit: 20},
	}
	items, err := ListItems(ctx, database, ItemListSpec, p)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 || *items[0].Description != "Monitor" {
		t.Fatalf("expected only Monitor, got %+v", items)
	}

	total, err := CountItems(ctx, database, ItemListSpec, query.Params{Values: map[string]string{"category": "IT"}})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("expected 2 IT items, got %d", total)
	}

	p = query.Params{SortBy: "sn_description", Page: query.Page{Page: 2, Limit: 2}}
	items, _ = ListItems(ctx, database, ItemListSpec, p)
	if len(items) != 1 || *items[0].Description != "Monitor" {
		t.Errorf("expected Monitor alone on page 2, got %+v", items)
	}
}

func TestUpdateItemKeepsTag(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := newItem("MLCA0001")
	item.Status = strPtr(model.ItemStatusActive)
	id, _ := InsertItem(ctx, database, item)

	updated := newItem("SHOULD-NOT-APPLY")
	updated.ID = id
	updated.Description = strPtr("Renamed")
	if err := UpdateItem(ctx, database, updated); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	got, _ := GetItem(ctx, database, id)
	if got.TagID != "MLCA0001" {
		t.Errorf("expected tag to stay MLCA0001, got %q", got.TagID)
	}
	if got.Description == nil || *got.Description != "Renamed" {
		t.Errorf("expected description Renamed, got %v", got.Description)
	}
	if got.Status != nil {
		t.Errorf("expected absent status to become NULL, got %q", *got.Status)
	}
}

func TestItemProbesAndDelete(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := newItem("MLCA0001")
	item.ModelNo = strPtr("XPS-15")
	item.SerialNo = strPtr("SN123")
	id, _ := InsertItem(ctx, database, item)

	if ok, err := ModelNoExists(ctx, database, "XPS-15"); err != nil || !ok {
		t.Errorf("ModelNoExists = %v, %v", ok, err)
	}
	if ok, _ := ModelNoExists(ctx, database, "nope"); ok {
		t.Error("expected unknown model number to be absent")
	}
	if ok, err := SerialNoExists(ctx, database, "SN123"); err != nil || !ok {
		t.Errorf("SerialNoExists = %v, %v", ok, err)
	}

	if err := DeleteItem(ctx, database, id); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if ok, _ := ItemExists(ctx, database, id); ok {
		t.Error("expected item to be gone")
	}
	if err := DeleteItem(ctx, database, id); err != nil {
		t.Errorf("deleting a missing item: %v", err)
	}
}
