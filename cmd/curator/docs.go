package main

// General API documentation for swaggo. Regenerate with `swag init -g cmd/curator/docs.go`.
//
// @title           Curator API
// @version         1.0
// @description     Local image catalog: scans import locations, describes images with an Ollama vision model and serves semantic search over the descriptions.
//
// @contact.name   curator maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
