package middleware

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"time"

	"github.com/kaushalkumar0001/StressLess/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Logger is a Gin middleware for logging HTTP requests and responses. It also
// feeds the request counters and latency histogram.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Start timer
		startTime := time.Now()

		// Process request
		c.Next()

		// End timer
		latency := time.Since(startTime)

		// Request details
		method := c.Request.Method
		uri := c.Request.RequestURI
		statusCode := c.Writer.Status()
		clientIP := c.ClientIP()
		// Get errors written by subsequent handlers
		errorsStr := c.Errors.ByType(gin.ErrorTypePrivate).String()
		if errorsStr == "" {
			errorsStr = "None"
		}

		// Route templates keep label cardinality bounded; unmatched paths share one label.
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
		metrics.HTTPDuration.WithLabelValues(route, method).Observe(latency.Seconds())

		log.Printf("[GIN] %s | %3d | %13v | %15s | %-7s %s\n      Errors: %s",
			startTime.Format("2006/01/02 - 15:04:05"),
			statusCode,
			latency,
			clientIP,
			method,
			uri,
			errorsStr,
		)
	}
}

// Cors allows the listed origins exactly plus any origin matching one of the
// patterns (regular expressions). Invalid patterns are logged and skipped.
func Cors(allowedOrigins []string, originPatterns []string) gin.HandlerFunc {
	exact := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		exact[origin] = struct{}{}
	}
	var patterns []*regexp.Regexp
	for _, p := range originPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			log.Printf("WARN: [Cors] Ignoring invalid origin pattern '%s': %v", p, err)
			continue
		}
		patterns = append(patterns, re)
	}

	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if _, ok := exact[origin]; ok {
				return true
			}
			for _, re := range patterns {
				if re.MatchString(origin) {
					return true
				}
			}
			log.Printf("INFO: [Cors] Blocked origin: %s", origin)
			return false
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}

// Timeout bounds the request context. Handlers that pass c.Request.Context()
// to the database or the language model give up once it expires.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
