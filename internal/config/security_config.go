package config

type AccessLevel int

const (
	AccessPublic AccessLevel = iota // No authentication
	AccessMember                    // Any signed-in user
	AccessAdmin                     // Signed-in administrator
)

// RouteAccessConfig maps HTTP route names to their required access level.
// Route names are set on the router; ownership rules (creator, self) are
// checked by the services.
var RouteAccessConfig = map[string]AccessLevel{
	// Infrastructure - Public
	"health":  AccessPublic,
	"metrics": AccessPublic,

	// Auth
	"auth.register": AccessPublic,
	"auth.login":    AccessPublic,
	"auth.refresh":  AccessPublic,
	"auth.me":       AccessMember,

	// Users
	"users.list":    AccessAdmin,
	"users.me":      AccessMember,
	"users.get":     AccessMember,
	"users.update":  AccessMember,
	"users.delete":  AccessAdmin,
	"users.balance": AccessAdmin,

	// Boats
	"boats.list":        AccessMember,
	"boats.get":         AccessMember,
	"boats.my_rentals":  AccessMember,
	"boats.all_rentals": AccessAdmin,
	"boats.create":      AccessAdmin,
	"boats.update":      AccessAdmin,
	"boats.delete":      AccessAdmin,
	"boats.rent":        AccessMember,
	"boats.return":      AccessMember,

	// Activities
	"activities.list":       AccessMember,
	"activities.get":        AccessMember,
	"activities.create":     AccessMember,
	"activities.update":     AccessMember,
	"activities.delete":     AccessMember,
	"activities.signup":     AccessMember,
	"activities.cancel":     AccessMember,
	"activities.checkin":    AccessMember,
	"activities.my_signups": AccessMember,
	"activities.signups":    AccessMember,

	// Finances
	"finances.list":    AccessMember,
	"finances.balance": AccessMember,
	"finances.create":  AccessMember,
	"finances.deposit": AccessAdmin,
	"finances.report":  AccessAdmin,

	// Notices
	"notices.list":   AccessMember,
	"notices.get":    AccessMember,
	"notices.create": AccessAdmin,
	"notices.update": AccessAdmin,
	"notices.delete": AccessAdmin,

	// Forum
	"forum.tags":           AccessMember,
	"forum.create_tag":     AccessAdmin,
	"forum.posts":          AccessMember,
	"forum.get_post":       AccessMember,
	"forum.create_post":    AccessMember,
	"forum.update_post":    AccessMember,
	"forum.delete_post":    AccessMember,
	"forum.comments":       AccessMember,
	"forum.create_comment": AccessMember,
	"forum.delete_comment": AccessMember,

	// Dashboard
	"stats": AccessAdmin,
}

// GetAccessLevel returns the access level for a given route name
func GetAccessLevel(route string) AccessLevel {
	if level, exists := RouteAccessConfig[route]; exists {
		return level
	}
	// Default to member access for unknown routes
	return AccessMember
}
