// Command gensecret prints a random hex-encoded key for the SECRET_KEY
// setting. Access tokens are signed with HS256, so the key is 32 bytes
// to match the 256-bit MAC.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

const secretKeyBytesLen = 32

func main() {
	key := make([]byte, secretKeyBytesLen)

	if _, err := rand.Read(key); err != nil {
		fmt.Fprintf(os.Stderr, "error while generating secret key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(key))
}
