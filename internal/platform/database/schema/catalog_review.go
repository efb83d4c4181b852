package schema

// CatalogReviewTable represents the 'catalog.review' table
type CatalogReviewTable struct {
	Table     string
	ID        string
	ListingID string
	AuthorID  string
	Rating    string
	Comment   string
	CreatedAt string
}

// CatalogReview is the schema definition for catalog.review
var CatalogReview = CatalogReviewTable{
	Table:     "catalog.review",
	ID:        "id",
	ListingID: "listingid",
	AuthorID:  "authorid",
	Rating:    "rating",
	Comment:   "comment",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t CatalogReviewTable) Columns() []string {
	return []string{t.ID, t.ListingID, t.AuthorID, t.Rating, t.Comment, t.CreatedAt}
}
