package presenter

import "fmt"

// RouteName renders a route for display, e.g. "Onboarding".
func RouteName(route fmt.Stringer) string {
	return titleCaser.String(route.String())
}
