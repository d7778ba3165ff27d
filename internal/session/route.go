package session

// Route identifies a screen. Onboarding, Authentication and Main are the
// top-level flows; the remaining routes are pushed on top of one of them.
type Route int

const (
	RouteOnboarding Route = iota
	RouteAuthentication
	RouteMain

	RouteLogin     // Authentication
	RouteRegister  // Authentication
	RouteCapture   // Main
	RouteResult    // Main
	RouteHistory   // Main
	RouteResources // Main
	RouteSettings  // Main
	RouteFAQ       // Main
)

var routeNames = map[Route]string{
	RouteOnboarding:     "onboarding",
	RouteAuthentication: "authentication",
	RouteMain:           "main",
	RouteLogin:          "login",
	RouteRegister:       "register",
	RouteCapture:        "capture",
	RouteResult:         "result",
	RouteHistory:        "history",
	RouteResources:      "resources",
	RouteSettings:       "settings",
	RouteFAQ:            "faq",
}

// String returns the lowercase route name.
func (r Route) String() string {
	if name, ok := routeNames[r]; ok {
		return name
	}
	return "unknown"
}

// Flow returns the top-level flow a route belongs to.
func (r Route) Flow() Route {
	switch r {
	case RouteLogin, RouteRegister, RouteAuthentication:
		return RouteAuthentication
	case RouteCapture, RouteResult, RouteHistory, RouteResources, RouteSettings, RouteFAQ, RouteMain:
		return RouteMain
	default:
		return RouteOnboarding
	}
}

// IsFlow reports whether r is one of the three top-level flows.
func (r Route) IsFlow() bool {
	return r == RouteOnboarding || r == RouteAuthentication || r == RouteMain
}
