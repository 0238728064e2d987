// Command keygen writes the RSA key pair used to sign and verify tokens.
package main

import (
	"flag"
	"log"

	"usergate/internal/auth"
)

func main() {
	bits := flag.Int("bits", 2048, "RSA modulus size")
	privatePath := flag.String("private", "demo.rsa", "private key output path")
	publicPath := flag.String("public", "demo.rsa.pub", "public key output path")
	flag.Parse()

	keys, err := auth.GenerateKeyPair(*bits)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}
	if err := auth.WriteKeyPair(keys, *privatePath, *publicPath); err != nil {
		log.Fatalf("write: %v", err)
	}
	log.Printf("wrote %s and %s", *privatePath, *publicPath)
}
