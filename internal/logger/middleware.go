// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	requestIDHeaderName = "x-request-id"
	userAgentHeaderName = "user-agent"

	IncomingRequestMessage  = "incoming request"
	RequestCompletedMessage = "request completed"
)

// RequestID returns the request id received from the caller or generate a new random one.
func RequestID(c *fiber.Ctx) string {
	if requestID := c.Get(requestIDHeaderName); requestID != "" {
		return requestID
	}

	// a failure here means the system random source is broken, fallback to an empty id
	requestID, err := uuid.NewRandom()
	if err != nil {
		return ""
	}
	return requestID.String()
}

// statusCode returns the status code that the error handler will write for err.
func statusCode(c *fiber.Ctx, err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	return c.Response().StatusCode()
}

// RequestMiddlewareLogger is a fiber middleware to log all requests.
// It logs the incoming request and when request is completed, adding latency of the request.
// Requests whose path starts with one of excludedPrefix are not logged.
func RequestMiddlewareLogger(logger Logger, excludedPrefix []string) func(*fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		for _, prefix := range excludedPrefix {
			if strings.HasPrefix(c.Path(), prefix) {
				return c.Next()
			}
		}

		start := time.Now()
		requestID := RequestID(c)
		requestLogger := logger.WithName("request").WithName(requestID)
		c.SetUserContext(WithContext(c.UserContext(), requestLogger))

		requestLogger.Trace(IncomingRequestMessage,
			"method", c.Method(),
			"path", c.Path(),
			"userAgent", c.Get(userAgentHeaderName),
		)

		err := c.Next()

		requestLogger.Info(RequestCompletedMessage,
			"method", c.Method(),
			"path", c.Path(),
			"statusCode", statusCode(c, err),
			"responseTime", float64(time.Since(start).Milliseconds()),
		)

		return err
	}
}
