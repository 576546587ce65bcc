package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// Prints a bcrypt hash suitable for ADMIN_PASSWORD_HASH. Without an
// argument the password is read from the terminal without echo.
func main() {
	password, err := readPassword()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(password) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/hash-password.go [password]\n")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword(password, 12)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(hash))
}

func readPassword() ([]byte, error) {
	if len(os.Args) >= 2 {
		return []byte(os.Args[1]), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return password, nil
}
