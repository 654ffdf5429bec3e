// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

const (
	healthzPath    = "/-/healthz"
	readyPath      = "/-/ready"
	ingestionsPath = "/ingestions"
)

type statusResponse struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// statusRoutes registers the probes used by the orchestrator to check the service.
func statusRoutes(app *fiber.App, serviceName, serviceVersion string) {
	status := statusResponse{
		Status:  "OK",
		Name:    serviceName,
		Version: serviceVersion,
	}

	app.Get(healthzPath, func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(status)
	})
	app.Get(readyPath, func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(status)
	})
}

// errorResponse writes the standard error payload with statusCode.
func errorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"statusCode": statusCode,
		"error":      http.StatusText(statusCode),
		"message":    message,
	})
}
