// Command hashpw prints the bcrypt hash for a staff password, for use in the
// staff section of the configuration file.
package main

import (
	"fmt"
	"os"

	"clubstay-backend/internal/security"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpw <password>")
		os.Exit(2)
	}
	hash, err := security.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
