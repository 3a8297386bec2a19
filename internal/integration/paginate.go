package integration

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

// FetchPage returns the raw JSON of the page addressed by cursor. The first
// call receives an empty cursor.
type FetchPage func(ctx context.Context, cursor string) ([]byte, error)

// Paginate walks a cursor-paginated listing. After each page the value at
// nextPath becomes the next cursor; an absent or empty value ends the walk.
// Pages are handed to visit in order.
func Paginate(ctx context.Context, fetch FetchPage, nextPath string, visit func(page gjson.Result) error) error {
	seen := make(map[string]struct{})
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		body, err := fetch(ctx, cursor)
		if err != nil {
			return err
		}
		if !gjson.ValidBytes(body) {
			return fmt.Errorf("page is not valid JSON")
		}
		page := gjson.ParseBytes(body)
		if err := visit(page); err != nil {
			return err
		}

		cursor = page.Get(nextPath).String()
		if cursor == "" {
			return nil
		}
		if _, dup := seen[cursor]; dup {
			return fmt.Errorf("pagination cursor %q repeated", cursor)
		}
		seen[cursor] = struct{}{}
	}
}
