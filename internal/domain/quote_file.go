package domain

import "time"

// QuoteFile is a stored CAD or drawing file attached to a quote.
type QuoteFile struct {
	ID        string
	QuoteID   string
	FileName  string
	FilePath  string
	FileSize  *int64
	FileType  string
	CreatedAt time.Time
}

// FileRef is a file already resolved by the upload boundary, ready to be attached to a quote.
type FileRef struct {
	FileName string
	FilePath string
	FileSize *int64
}
