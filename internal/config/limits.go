package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderNameLength = 255

	// MaxItemNameLength is the maximum length for stored item names.
	MaxItemNameLength = 255

	// DefaultMaxItemSizeBytes caps a single upload when a policy omits max_item_size_bytes.
	DefaultMaxItemSizeBytes = 10 * 1024 * 1024

	// DefaultProgressStep is the percentage advanced per simulated transfer step.
	DefaultProgressStep = 10

	// MaxUploadBatchItems bounds the number of items accepted in one request.
	MaxUploadBatchItems = 100

	// MaxUploadRequestBytes bounds multipart upload bodies.
	MaxUploadRequestBytes = 100 << 20
)
