package main

import (
	"os"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/domenectl/domenectl/internal/adapter/driving/cli"
)

func main() {
	os.Exit(cli.Execute())
}
