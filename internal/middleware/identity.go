package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID derives an identity string for rate-limit keys from the
// claims JWTAuth stored in context.  Anonymous requests share "anon".
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case nil:
		return "anon"
	case string:
		if v != "" {
			return v
		}
		return "anon"
	default:
		return fmt.Sprint(v)
	}
}
