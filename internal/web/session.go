package web

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	sessionName    = "timeclock_session"
	sessionUserKey = "user_id"
	rememberCookie = "remember_token"
)

// Flash categories used by the templates.
const (
	flashSuccess = "success"
	flashInfo    = "info"
	flashWarning = "warning"
	flashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

func getSession(c echo.Context) (*sessions.Session, error) {
	return session.Get(sessionName, c)
}

// sessionUserID returns the user id stored in the session, or 0.
func sessionUserID(c echo.Context) int64 {
	sess, err := getSession(c)
	if err != nil {
		return 0
	}
	id, _ := sess.Values[sessionUserKey].(int64)
	return id
}

// startSession stores userID in a fresh session cookie.
func startSession(c echo.Context, userID int64) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	sess.Values[sessionUserKey] = userID
	return sess.Save(c.Request(), c.Response())
}

// endSession drops the user from the session and expires the remember-me cookie.
// Pending flashes survive so the logout message is still shown.
func endSession(c echo.Context, secure bool) error {
	c.SetCookie(&http.Cookie{
		Name:     rememberCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
	})
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	delete(sess.Values, sessionUserKey)
	return sess.Save(c.Request(), c.Response())
}

// flash queues a message for the next page. Session errors are dropped since
// a lost flash must not fail the request.
func flash(c echo.Context, category, message string) {
	sess, err := getSession(c)
	if err != nil {
		return
	}
	sess.AddFlash(Flash{Category: category, Message: message})
	_ = sess.Save(c.Request(), c.Response())
}

// takeFlashes pops every queued message. It writes the session cookie, so it
// must run before the response body.
func takeFlashes(c echo.Context) []Flash {
	sess, err := getSession(c)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(c.Request(), c.Response())

	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	return out
}

// redirect answers with 303 so a POST is followed by a GET.
func redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}
