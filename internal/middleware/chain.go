package middleware // middleware holds the request interceptors that run ahead of resource handlers

import "github.com/labstack/echo/v4"

// Interceptor inspects a request before the terminal handler runs. Returning
// nil continues with the next interceptor; any error rejects the request and
// nothing after it executes. Interceptors pass data downstream by attaching
// it to the request context.
type Interceptor func(c echo.Context) error

// Chain composes interceptors into a single Echo middleware. They execute
// strictly in the order given, then the handler.
func Chain(steps ...Interceptor) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, step := range steps {
				if err := step(c); err != nil {
					return err
				}
			}
			return next(c)
		}
	}
}
