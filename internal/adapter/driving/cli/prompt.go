package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/domenectl/domenectl/internal/domain/model"
)

// confirm asks a yes/no question and returns true only for an explicit
// "y" or "yes" (case-insensitive). Anything else, including EOF, declines.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer := strings.ToLower(strings.TrimSpace(readLine(in)))
	return answer == "y" || answer == "yes"
}

// promptLine reads one line with a default used on empty input.
func promptLine(in io.Reader, out io.Writer, label, fallback string) string {
	if fallback != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, fallback)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	answer := strings.TrimSpace(readLine(in))
	if answer == "" {
		return fallback
	}
	return answer
}

// promptCredentials reads a token visibly and a secret with echo disabled
// when stdin is a real terminal. The secret never appears on screen.
func promptCredentials(in io.Reader, out io.Writer) (model.Credentials, error) {
	token := promptLine(in, out, "API token", "")
	if token == "" {
		return model.Credentials{}, model.NewError(model.KindUserCancelled, "no token entered")
	}

	secret, err := readSecret(in, out, "API secret")
	if err != nil {
		return model.Credentials{}, err
	}
	if secret == "" {
		return model.Credentials{}, model.NewError(model.KindUserCancelled, "no secret entered")
	}

	return model.Credentials{Token: token, Secret: secret, Source: model.SourceInteractive}, nil
}

// readSecret disables terminal echo for the secret when possible and falls
// back to a plain read for piped stdin (tests).
func readSecret(in io.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return strings.TrimSpace(readLine(in)), nil
}

// readLine reads up to the next newline one byte at a time so that
// consecutive prompts never swallow each other's input.
func readLine(in io.Reader) string {
	var line strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			line.WriteByte(buf[0])
		}
		if err != nil {
			break
		}
	}
	return strings.TrimRight(line.String(), "\r")
}
