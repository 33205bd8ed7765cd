package main

// General API documentation for swaggo. Regenerate docs/ with
// `swag init -g cmd/studiod/docs.go -o docs`.
//
// @title           studiod API
// @version         1.0
// @description     Local LLM studio: OpenAI-compatible inference plus model lifecycle management.
//
// @contact.name   studiod maintainers
// @contact.url    https://github.com/your-org/studiod
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
