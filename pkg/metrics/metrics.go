package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agrivest_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	Registrations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agrivest_registrations_total",
		Help: "Total number of successful user registrations",
	})

	Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrivest_logins_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})

	ProjectsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrivest_projects_created_total",
		Help: "Projects created by farm type",
	}, []string{"farm_type"})

	InvestmentsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agrivest_investments_created_total",
		Help: "Total number of investments pledged",
	})

	MailsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrivest_mails_total",
		Help: "Outbound mails by outcome (sent, failed, queued, dropped)",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		RequestDuration,
		Registrations,
		Logins,
		ProjectsCreated,
		InvestmentsCreated,
		MailsSent,
	)
}

// Middleware records request latency per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := strconv.Itoa(c.Response().Status)
			RequestDuration.WithLabelValues(c.Request().Method, c.Path(), status).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
