package views

import "github.com/saulo-duarte/mockprep/internal/model"

const (
	RouteAdminPanel      = "/admin"
	RouteInstructorPanel = "/instructor"
	RouteDashboard       = "/dashboard"
)

func HomeRoute(role model.Role) string {
	switch role {
	case model.RoleAdmin:
		return RouteAdminPanel
	case model.RoleInstructor:
		return RouteInstructorPanel
	default:
		return RouteDashboard
	}
}
