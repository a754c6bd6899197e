package models

// OrderFilters defines the available filters for the staff order listing.
// This struct is used by both the service and repository layers.
type OrderFilters struct {
	TableNumber *string `form:"table_number"`
	Status      *string `form:"status"`
	IsPaid      *bool   `form:"is_paid"`
	Page        int     `form:"page"`
	PageSize    int     `form:"page_size"`
}
