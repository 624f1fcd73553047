package main

// General API documentation for swaggo. Run `swag init -g cmd/scancam/docs.go -d ./ -o docs`
// to regenerate.
//
// @title           scancam API
// @version         1.0
// @description     HTTP control surface for the barcode scanning camera service.
//
// @contact.name   scancam maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
