// Command genkey mints a new admin API key and prints the bcrypt hash to
// configure as ADMIN_API_KEY_HASH. The plaintext key is shown once; store
// it with the operator, not on the server.
package main

import (
	"fmt"
	"log"

	"chat-dashboard-backend/internal/apikey"
	"chat-dashboard-backend/utils"
)

func main() {
	key := utils.GenerateAPIKey()
	hash, err := apikey.Hash(key)
	if err != nil {
		log.Fatalf("hash api key: %v", err)
	}

	fmt.Printf("API key:            %s\n", key)
	fmt.Printf("ADMIN_API_KEY_HASH: %s\n", hash)
}
