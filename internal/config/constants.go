package config

// Defaults for values that are not set in the environment
const (
	DefaultHost = "0.0.0.0"
	DefaultPort = 8188

	// DefaultIndexLimit is the number of books rendered on the index page
	DefaultIndexLimit = 25

	// DefaultAPILimit is the number of records returned by /books.json
	DefaultAPILimit = 50

	// DefaultAnalysisCacheSize is the number of cover analyses kept across requests
	DefaultAnalysisCacheSize = 1024

	// DefaultExportOutput is where the batch export writes books.json
	DefaultExportOutput = "public/books.json"

	// DefaultExportRemoteBaseURL prefixes placeholder cover and book URLs
	DefaultExportRemoteBaseURL = "https://drive.google.com"
)
