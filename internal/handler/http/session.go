package http

import (
	"github.com/labstack/echo/v4"

	"zenith-forums/internal/config"
	"zenith-forums/internal/models"
)

const currentUserKey = "currentUser"

// StandInUser builds the configured stand-in identity. It returns nil when
// no user id is configured, meaning nobody is signed in.
func StandInUser(cfg config.CurrentUserConfig) *models.User {
	if cfg.ID == "" {
		return nil
	}
	user := &models.User{
		ID:        cfg.ID,
		Username:  cfg.Username,
		AvatarURL: cfg.AvatarURL,
	}
	if user.Username == "" {
		user.Username = "Member " + cfg.ID
	}
	if user.AvatarURL == "" {
		user.AvatarURL = "https://placehold.co/100x100.png"
	}
	return user
}

// Session stores the signed-in user, or nil, on every request context.
func Session(user *models.User) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user != nil {
				u := *user
				c.Set(currentUserKey, &u)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(currentUserKey).(*models.User)
	return user
}
