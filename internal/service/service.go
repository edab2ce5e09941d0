// Package service implements the inventory, account and login operations on
// top of the store package.
package service

import "github.com/erazemk/assetinv/internal/query"

// ListResult is one page of a list endpoint.
type ListResult[T any] struct {
	Items      []T              `json:"items"`
	Pagination query.Pagination `json:"pagination"`
}

func newListResult[T any](items []T, p query.Page, total int) *ListResult[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResult[T]{Items: items, Pagination: query.NewPagination(p, total)}
}

// withMaxLimit returns a copy of spec capped at maxPageSize.
func withMaxLimit(spec query.Spec, maxPageSize int) query.Spec {
	spec.MaxLimit = maxPageSize
	return spec
}
