// Package components holds the HTML fragments the server renders.
package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const closeWindowHTML = `<html>
    <script>
        window.close();
    </script>
</html>
`

// CloseWindow is shown in the OAuth popup after a successful callback.
func CloseWindow() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, closeWindowHTML)
		return err
	})
}
