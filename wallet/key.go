package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/term"
	"io"
	"os"
	"strings"
)

var ErrNoKey = errors.New("no private key: set SINDER_PRIVATE_KEY or run in a terminal")

// readPassword reads a line without echo.
var readPassword = term.ReadPassword

// ParseKey decodes a hex private key with or without 0x prefix.
func ParseKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// LoadKey reads the key from the named environment variable, falling back to
// a no-echo prompt on in when it is a terminal.
func LoadKey(envName string, in *os.File, out io.Writer) (*ecdsa.PrivateKey, error) {
	if v := os.Getenv(envName); v != "" {
		return ParseKey(v)
	}
	if in == nil || !term.IsTerminal(int(in.Fd())) {
		return nil, ErrNoKey
	}
	return PromptKey(int(in.Fd()), out)
}

// PromptKey asks for the key on the terminal fd.
func PromptKey(fd int, out io.Writer) (*ecdsa.PrivateKey, error) {
	fmt.Fprint(out, "Private key: ")
	b, err := readPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	return ParseKey(string(b))
}
