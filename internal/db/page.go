package db

// PageSize is the fixed number of records per listing page.
const PageSize = 10

// Offset returns the row offset of a 1-based page; pages below 1 count as 1.
func Offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}
