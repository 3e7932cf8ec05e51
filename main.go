package main

import (
	"agreetime-api/core/logger"
	"agreetime-api/core/server"
)

// @title AgreeTime API
// @version 1.0
// @description Approval-gated event scheduling: proposals, unanimous approval rounds, conflict-checked calendars
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@agreetime.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
