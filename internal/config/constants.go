package config

const (
	// DefaultDatabasePath is the default path for the catalogue database
	DefaultDatabasePath = "./books.db"

	// DefaultAuthority is the default authority of content addresses
	DefaultAuthority = "bookdb.catalog"
)
