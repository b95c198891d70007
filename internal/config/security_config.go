package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityAdmin                       // Access token with the admin role
)

// EndpointSecurityConfig maps "METHOD route-template" to the required security level.
var EndpointSecurityConfig = map[string]SecurityLevel{
	"GET /api/v1/health":      SecurityPublic,
	"POST /api/v1/auth/login": SecurityPublic,

	"POST /api/v1/reservations":                SecurityAccess,
	"GET /api/v1/reservations":                 SecurityAccess,
	"GET /api/v1/reservations/code/{code}":     SecurityAccess,
	"GET /api/v1/reservations/{id}":            SecurityAccess,
	"POST /api/v1/reservations/{id}/check-in":  SecurityAccess,
	"POST /api/v1/reservations/{id}/check-out": SecurityAccess,
	"POST /api/v1/reservations/{id}/cancel":    SecurityAccess,

	"GET /api/v1/dashboard/check-ins/today":    SecurityAccess,
	"GET /api/v1/dashboard/check-outs/today":   SecurityAccess,
	"GET /api/v1/dashboard/active":             SecurityAccess,
	"GET /api/v1/dashboard/reservations/stats": SecurityAccess,

	"POST /api/v1/billing":              SecurityAccess,
	"GET /api/v1/billing":               SecurityAccess,
	"GET /api/v1/billing/pending":       SecurityAccess,
	"GET /api/v1/billing/stats":         SecurityAccess,
	"GET /api/v1/billing/rules":         SecurityAccess,
	"GET /api/v1/billing/{id}":          SecurityAccess,
	"POST /api/v1/billing/{id}/process": SecurityAccess,
	"POST /api/v1/billing/{id}/cancel":  SecurityAdmin,
}

// GetSecurityLevel returns the security level for a route
func GetSecurityLevel(method, routeTemplate string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method+" "+routeTemplate]; exists {
		return level
	}
	// Default to access for unknown endpoints
	return SecurityAccess
}
