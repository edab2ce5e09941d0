package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are written to clients as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// InventoryItem is a single tracked piece of office equipment.
type InventoryItem struct {
	ID    int64  `json:"id"`
	TagID string `json:"tag_id"`

	Description  *string `json:"sn_description"`
	Category     *string `json:"category"`
	DeptArea     *string `json:"dept_area"`
	Office       *string `json:"office"`
	Designation  *string `json:"designation"`
	Assignee     *string `json:"assignee"`
	EmailAddress *string `json:"email_address"`
	MobileNumber *string `json:"mobile_number"`

	DateIssued         *time.Time `json:"date_issued"`
	Supplier           *string    `json:"supplier"`
	WarrantyExpiration *time.Time `json:"warranty_expiration"`
	Status             *string    `json:"status"`
	ConditionStatus    *string    `json:"condition_status"`

	UnitValue  decimal.Decimal `json:"unit_value"`
	Qty        int             `json:"qty"`
	TotalValue decimal.Decimal `json:"total_value"`

	ModelNo  *string `json:"model_no"`
	SerialNo *string `json:"serial_no"`

	Remarks          *string    `json:"remarks"`
	RemarksDate      *time.Time `json:"remarks_date"`
	ChainOfOwnership *string    `json:"chain_of_ownership"`
	PreviousOwner    *string    `json:"previous_owner"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemInput is the request body accepted by inventory create and update.
// Numeric and date fields are left untyped: clients send them as numbers,
// plain strings or currency-formatted strings.
type ItemInput struct {
	Description      string `json:"sn_description"`
	Category         string `json:"category"`
	DeptArea         string `json:"dept_area"`
	Office           string `json:"office"`
	Designation      string `json:"designation"`
	Assignee         string `json:"assignee"`
	EmailAddress     string `json:"email_address"`
	MobileNumber     string `json:"mobile_number"`
	Supplier         string `json:"supplier"`
	Status           string `json:"status"`
	ConditionStatus  string `json:"condition_status"`
	ModelNo          string `json:"model_no"`
	SerialNo         string `json:"serial_no"`
	Remarks          string `json:"remarks"`
	ChainOfOwnership string `json:"chain_of_ownership"`
	PreviousOwner    string `json:"previous_owner"`

	DateIssued         any `json:"date_issued"`
	WarrantyExpiration any `json:"warranty_expiration"`
	RemarksDate        any `json:"remarks_date"`

	UnitValue  any `json:"unit_value"`
	Qty        any `json:"qty"`
	TotalValue any `json:"total_value"`
}

// Item defaults applied on create.
const (
	ItemStatusActive = "Active"
	ItemConditionNew = "New"
	DefaultItemQty   = 1
	DefaultTagPrefix = "MLCA"
	TagCounterWidth  = 4
)
