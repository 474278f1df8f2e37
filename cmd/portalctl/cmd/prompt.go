package cmd

import (
	"fmt"
	"os"

	portalerrors "github.com/jrsteele09/go-tutor-portal/internal/errors"
	"golang.org/x/term"
)

var readPasswordFunc = term.ReadPassword // mockable

// passwordOrPrompt returns value when set, otherwise reads a password from
// the terminal without echo.
func passwordOrPrompt(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Printf("%s: ", label)
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", portalerrors.ErrPasswordRequired
	}
	return string(pwd), nil
}

// maskToken hides all but the edges of a token for display.
func maskToken(tok string) string {
	const visible = 6
	if len(tok) <= visible*2 {
		return "••••••••"
	}
	return tok[:visible] + "••••••••" + tok[len(tok)-visible:]
}
