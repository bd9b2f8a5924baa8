// filepath: internal/bridge/routes.go
package bridge

import (
	"net/url"
	"strings"
)

// RouteKind names the navigable surfaces of the application.
type RouteKind string

const (
	RouteDashboard     RouteKind = "dashboard"
	RouteCreateProfile RouteKind = "create-profile"
	RouteLibrary       RouteKind = "library"
	RouteSettings      RouteKind = "settings"
)

// Route is structured navigation state. Error context travels as a typed
// field instead of being joined into the path with delimiters, so messages
// containing separators cannot corrupt the route.
type Route struct {
	Kind RouteKind
	// FolderPath is set for library routes.
	FolderPath string
	// Section is set for settings routes ("mpv", "profile", ...).
	Section string
	// Alert carries an error to surface on arrival, typically a player
	// failure deep-linking into the section that can fix it.
	Alert *Alert
}

// Alert is the single modal surfaced for user-actionable failures: a
// title/description pair plus an optional remediation route.
type Alert struct {
	Title       string
	Description string
	// Remediation, when non-nil, is offered as the alert's continue action.
	Remediation *Route
}

func DashboardRoute() Route {
	return Route{Kind: RouteDashboard}
}

func CreateProfileRoute() Route {
	return Route{Kind: RouteCreateProfile}
}

func LibraryRoute(folderPath string) Route {
	return Route{Kind: RouteLibrary, FolderPath: folderPath}
}

func SettingsRoute(section string) Route {
	return Route{Kind: RouteSettings, Section: section}
}

// Path renders the route as a navigation path.
func (r Route) Path() string {
	switch r.Kind {
	case RouteLibrary:
		return "/library/" + url.PathEscape(r.FolderPath)
	case RouteSettings:
		if r.Section != "" {
			return "/settings/" + r.Section
		}
		return "/settings"
	case RouteCreateProfile:
		return "/create-profile"
	case RouteDashboard:
		return "/dashboard"
	default:
		return "/"
	}
}

// ParsePath converts a navigation path back into a structured route. Legacy
// "section_ERROR_message" settings segments are recognized and lifted into
// the typed Alert field.
func ParsePath(path string) Route {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" || trimmed == "dashboard" {
		return DashboardRoute()
	}
	if trimmed == "create-profile" {
		return CreateProfileRoute()
	}

	head, rest, _ := strings.Cut(trimmed, "/")
	switch head {
	case "library":
		folderPath, err := url.PathUnescape(rest)
		if err != nil {
			folderPath = rest
		}
		return LibraryRoute(folderPath)
	case "settings":
		return parseSettingsSegment(rest)
	}
	return DashboardRoute()
}

// parseSettingsSegment handles both plain sections ("mpv") and the legacy
// encoded form "section_ERROR_message".
func parseSettingsSegment(segment string) Route {
	section, message, found := strings.Cut(segment, "_ERROR_")
	route := SettingsRoute(section)
	if found && message != "" {
		route.Alert = &Alert{Title: "Error", Description: message}
	}
	return route
}
