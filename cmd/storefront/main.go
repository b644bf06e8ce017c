package main

import "github.com/aaravmahajanofficial/storefront-cart/internal/cli"

//	@title						Storefront Cart API
//	@version					1.0
//	@description				Catalog browsing and per-user shopping carts.
//	@host						localhost:8080
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Identity provider access token, prefixed with "Bearer ".
func main() {
	cli.Execute()
}
