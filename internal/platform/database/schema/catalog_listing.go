package schema

// CatalogListingTable represents the 'catalog.listing' table
type CatalogListingTable struct {
	Table         string
	ID            string
	Title         string
	Description   string
	ImageURL      string
	ImageFilename string
	Price         string
	Location      string
	Country       string
	Category      string
	OwnerID       string
	CreatedAt     string
	UpdatedAt     string
}

// CatalogListing is the schema definition for catalog.listing
var CatalogListing = CatalogListingTable{
	Table:         "catalog.listing",
	ID:            "id",
	Title:         "title",
	Description:   "description",
	ImageURL:      "imageurl",
	ImageFilename: "imagefilename",
	Price:         "price",
	Location:      "location",
	Country:       "country",
	Category:      "category",
	OwnerID:       "ownerid",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

// Columns returns all standard column names
func (t CatalogListingTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.ImageURL, t.ImageFilename, t.Price,
		t.Location, t.Country, t.Category, t.OwnerID, t.CreatedAt, t.UpdatedAt,
	}
}
