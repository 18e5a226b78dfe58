// Command keygen prints a fresh field-encryption key for ENCRYPTION_KEY.
package main

import (
	"fmt"
	"log"

	"github.com/lifememo/navi/internal/cryptox"
)

func main() {
	key, err := cryptox.GenerateKey()
	if err != nil {
		log.Fatalf("generate key: %v", err)
	}
	fmt.Println(key)
}
