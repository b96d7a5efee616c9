package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HouseholdHeader carries the caller's household identifier
const HouseholdHeader = "X-Household-ID"

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// HouseholdIDKey is the context key for the household ID
	HouseholdIDKey contextKey = "household_id"
)

// RequireHousehold rejects requests without a valid X-Household-ID header and
// stores the parsed ID in the request context
func RequireHousehold() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HouseholdHeader)
			if raw == "" {
				return badRequestError(c, "Missing "+HouseholdHeader+" header")
			}

			householdID, err := uuid.Parse(raw)
			if err != nil || householdID == uuid.Nil {
				return badRequestError(c, HouseholdHeader+" must be a UUID")
			}

			ctx := WithHouseholdID(c.Request().Context(), householdID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetHouseholdID extracts the household ID from the request context
func GetHouseholdID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(HouseholdIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// WithHouseholdID returns a copy of ctx carrying householdID
func WithHouseholdID(ctx context.Context, householdID uuid.UUID) context.Context {
	return context.WithValue(ctx, HouseholdIDKey, householdID)
}
