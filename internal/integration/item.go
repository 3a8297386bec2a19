// Package integration defines the provider-neutral types shared by every
// integration: the normalized Item, the cached Credentials blob, the error
// taxonomy and a small authenticated API client.
package integration

// Item is one object listed from a connected account. Optional fields are
// pointers so that absent values serialize as null.
type Item struct {
	ID               *string  `json:"id"`
	Type             *string  `json:"type"`
	Directory        bool     `json:"directory"`
	ParentPathOrName *string  `json:"parent_path_or_name"`
	ParentID         *string  `json:"parent_id"`
	Name             *string  `json:"name"`
	CreationTime     *string  `json:"creation_time"`
	LastModifiedTime *string  `json:"last_modified_time"`
	URL              *string  `json:"url"`
	Children         []string `json:"children"`
	MimeType         *string  `json:"mime_type"`
	Delta            *string  `json:"delta"`
	DriveID          *string  `json:"drive_id"`
	Visibility       bool     `json:"visibility"`
}

// NewItem returns an Item with the default flags: not a directory, visible.
func NewItem(id, itemType, name string) Item {
	return Item{
		ID:         Str(id),
		Type:       Str(itemType),
		Name:       Str(name),
		Visibility: true,
	}
}

// Str returns a pointer to s.
func Str(s string) *string {
	return &s
}

// OptStr returns nil for an empty string.
func OptStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
