package routes

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"tenanthub-backend/shared/config"

	"github.com/gin-gonic/gin"
)

// getServiceURLs returns service URLs from configuration
func getServiceURLs() map[string]string {
	cfg := config.GetConfig()
	return map[string]string{
		"auth":         cfg.AuthServiceURL,
		"core":         cfg.CoreServiceURL,
		"knowledge":    cfg.KnowledgeServiceURL,
		"notification": cfg.NotificationServiceURL,
	}
}

// ProxyToService forwards the request to the named backend service.
// The target service name is stored on the context so the audit
// middleware can record which service handled the request.
func ProxyToService(serviceName string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		serviceURLs := getServiceURLs()

		serviceURL, exists := serviceURLs[serviceName]
		if !exists {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Service not found", "service": serviceName})
			return
		}

		target, err := url.Parse(serviceURL)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid service URL", "service": serviceName})
			return
		}

		ctx.Set("proxy_target", serviceName)

		proxy := httputil.NewSingleHostReverseProxy(target)
		proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error": "Service unavailable"}`))
		}

		if requestID, ok := ctx.Get("request_id"); ok {
			ctx.Request.Header.Set("X-Request-ID", requestID.(string))
		}

		proxy.ServeHTTP(ctx.Writer, ctx.Request)
	}
}
