package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
)

func main() {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}

	fmt.Println("=================================================")
	fmt.Println("  Development backend signing secret (HS256)")
	fmt.Println("=================================================")
	fmt.Println()
	fmt.Println(base64.StdEncoding.EncodeToString(key))
	fmt.Println()
	fmt.Println("Export it before starting folio-devapi:")
	fmt.Printf("export FOLIO_DEVAPI_SECRET=\"%s\"\n", base64.StdEncoding.EncodeToString(key))
	fmt.Println()
	fmt.Println("Tokens signed with the previous secret stop working.")
	fmt.Println("=================================================")
}
