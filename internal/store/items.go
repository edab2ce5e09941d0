package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/erazemk/assetinv/internal/model"
	"github.com/erazemk/assetinv/internal/query"
)

// ItemListSpec describes GET /api/inventory filtering and sorting.
var ItemListSpec = query.Spec{
	Table: "inventory_items",
	Filters: []query.Filter{
		{Param: "category", Column: "category"},
		{Param: "dept_area", Column: "dept_area"},
		{Param: "status", Column: "status"},
		{Param: "condition_status", Column: "condition_status"},
	},
	SearchParam:   "search",
	SearchColumns: []string{"sn_description", "assignee", "tag_id"},
	SortFields:    []string{"tag_id", "sn_description", "assignee", "status", "dept_area"},
	DefaultSort:   "id",
	DefaultLimit:  20,
}

var itemColumns = []string{
	"id", "tag_id", "sn_description", "category", "dept_area", "office",
	"designation", "assignee", "email_address", "mobile_number",
	"date_issued", "supplier", "warranty_expiration", "status", "condition_status",
	"unit_value", "qty", "total_value", "model_no", "serial_no",
	"remarks", "remarks_date", "chain_of_ownership", "previous_owner",
	"created_at", "updated_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner, item *model.InventoryItem) error {
	err := row.Scan(
		&item.ID, &item.TagID, &item.Description, &item.Category, &item.DeptArea, &item.Office,
		&item.Designation, &item.Assignee, &item.EmailAddress, &item.MobileNumber,
		&item.DateIssued, &item.Supplier, &item.WarrantyExpiration, &item.Status, &item.ConditionStatus,
		&item.UnitValue, &item.Qty, &item.TotalValue, &item.ModelNo, &item.SerialNo,
		&item.Remarks, &item.RemarksDate, &item.ChainOfOwnership, &item.PreviousOwner,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return err
	}
	for _, t := range []*time.Time{item.DateIssued, item.WarrantyExpiration, item.RemarksDate, &item.CreatedAt, &item.UpdatedAt} {
		toUTC(t)
	}
	return nil
}

// mutableItemValues returns every column an update rewrites, tag_id excluded.
func mutableItemValues(item *model.InventoryItem) map[string]any {
	return map[string]any{
		"sn_description":      nullString(item.Description),
		"category":            nullString(item.Category),
		"dept_area":           nullString(item.DeptArea),
		"office":              nullString(item.Office),
		"designation":         nullString(item.Designation),
		"assignee":            nullString(item.Assignee),
		"email_address":       nullString(item.EmailAddress),
		"mobile_number":       nullString(item.MobileNumber),
		"date_issued":         nullTime(item.DateIssued),
		"supplier":            nullString(item.Supplier),
		"warranty_expiration": nullTime(item.WarrantyExpiration),
		"status":              nullString(item.Status),
		"condition_status":    nullString(item.ConditionStatus),
		"unit_value":          item.UnitValue,
		"qty":                 item.Qty,
		"total_value":         item.TotalValue,
		"model_no":            nullString(item.ModelNo),
		"serial_no":           nullString(item.SerialNo),
		"remarks":             nullString(item.Remarks),
		"remarks_date":        nullTime(item.RemarksDate),
		"chain_of_ownership":  nullString(item.ChainOfOwnership),
		"previous_owner":      nullString(item.PreviousOwner),
	}
}

// LastTag returns the tag of the most recently inserted item, or "" when the
// table is empty.
func LastTag(ctx context.Context, db Querier) (string, error) {
	var tag string
	err := db.QueryRowContext(ctx,
		`SELECT tag_id FROM inventory_items ORDER BY id DESC LIMIT 1`,
	).Scan(&tag)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting last tag: %w", err)
	}
	return tag, nil
}

// InsertItem inserts item with its tag and returns the new ID. A duplicate
// tag yields an error wrapping model.ErrConflict.
func InsertItem(ctx context.Context, db Querier, item *model.InventoryItem) (int64, error) {
	values := mutableItemValues(item)
	values["tag_id"] = item.TagID

	stmt, args, err := sq.Insert("inventory_items").SetMap(values).ToSql()
	if err != nil {
		return 0, fmt.Errorf("building item insert: %w", err)
	}

	result, err := db.ExecContext(ctx, stmt, args...)
	if IsUniqueViolation(err) {
		return 0, fmt.Errorf("creating item: tag %s: %w", item.TagID, model.ErrConflict)
	}
	if err != nil {
		return 0, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting item id: %w", err)
	}
	return id, nil
}

// GetItem returns an item by ID, or nil when it does not exist.
func GetItem(ctx context.Context, db Querier, id int64) (*model.InventoryItem, error) {
	stmt, args, err := sq.Select(itemColumns...).From("inventory_items").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building item query: %w", err)
	}

	item := &model.InventoryItem{}
	err = scanItem(db.QueryRowContext(ctx, stmt, args...), item)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns one page of items matching p.
func ListItems(ctx context.Context, db Querier, spec query.Spec, p query.Params) ([]model.InventoryItem, error) {
	stmt, args, err := spec.Select(p, itemColumns...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building item list: %w", err)
	}

	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		var item model.InventoryItem
		if err := scanItem(rows, &item); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountItems returns the number of items matching p, ignoring pagination.
func CountItems(ctx context.Context, db Querier, spec query.Spec, p query.Params) (int, error) {
	stmt, args, err := spec.Count(p).ToSql()
	if err != nil {
		return 0, fmt.Errorf("building item count: %w", err)
	}

	var total int
	if err := db.QueryRowContext(ctx, stmt, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return total, nil
}

// ItemExists reports whether an item with the given ID exists.
func ItemExists(ctx context.Context, db Querier, id int64) (bool, error) {
	return itemFieldExists(ctx, db, "id", id)
}

// ModelNoExists reports whether any item carries the model number.
func ModelNoExists(ctx context.Context, db Querier, modelNo string) (bool, error) {
	return itemFieldExists(ctx, db, "model_no", modelNo)
}

// SerialNoExists reports whether any item carries the serial number.
func SerialNoExists(ctx context.Context, db Querier, serialNo string) (bool, error) {
	return itemFieldExists(ctx, db, "serial_no", serialNo)
}

func itemFieldExists(ctx context.Context, db Querier, column string, value any) (bool, error) {
	stmt, args, err := sq.Select("1").From("inventory_items").Where(sq.Eq{column: value}).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("building %s lookup: %w", column, err)
	}

	var one int
	err = db.QueryRowContext(ctx, stmt, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", column, err)
	}
	return true, nil
}

// UpdateItem rewrites every mutable column of the item. The tag is never changed.
func UpdateItem(ctx context.Context, db Querier, item *model.InventoryItem) error {
	stmt, args, err := sq.Update("inventory_items").
		SetMap(mutableItemValues(item)).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building item update: %w", err)
	}

	if _, err := db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem removes an item. Deleting a missing ID is not an error.
func DeleteItem(ctx context.Context, db Querier, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}
