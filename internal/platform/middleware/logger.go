package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Logger emits one structured line per request. Requests addressing a
// specific patient (path or query parameter) carry the patient id so triage
// activity can be traced per patient across the queue, history and
// recommendation endpoints.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}
			if pid := requestPatientID(c); pid != "" {
				evt = evt.Str("patient_id", pid)
			}

			evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("route", c.Path()).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return err
		}
	}
}

// requestPatientID pulls the patient identity from the route param or query
// string, whichever the endpoint uses.
func requestPatientID(c echo.Context) string {
	if pid := c.Param("patient_id"); pid != "" {
		return pid
	}
	return c.QueryParam("patient_id")
}
