// Copyright (c) 2026 Ministerio Público - DICRI. All rights reserved.

/*
Package navigation declares the portal's route catalogue.

The backend describes enabled modules as records carrying free-form route
strings. Trusting those strings throughout the UI invites drift, so the
catalogue below is the single declarative mapping from capability to route:
module records are validated here, at the boundary where the list is
received, and records pointing at unknown routes are dropped.
*/
package navigation

import "strings"

// Known portal routes. A module record is only honored when its `ruta`
// resolves to one of these.
const (
	RouteDashboard      = "/dashboard"
	RouteExpedientes    = "/dashboard/expedientes"
	RouteRevision       = "/dashboard/revision"
	RouteReportes       = "/dashboard/reportes"
	RouteAdmin          = "/dashboard/admin"
	RouteChangePassword = "/dashboard/change-password"
)

// catalogue indexes every known route for O(1) membership checks.
var catalogue = map[string]struct{}{
	RouteDashboard:      {},
	RouteExpedientes:    {},
	RouteRevision:       {},
	RouteReportes:       {},
	RouteAdmin:          {},
	RouteChangePassword: {},
}

// KnownRoute reports whether a server-supplied route string maps to a real
// portal view. Sub-paths of the admin tree are accepted because the admin
// module mounts nested screens (users, roles, fiscalías).
func KnownRoute(ruta string) bool {
	if _, ok := catalogue[ruta]; ok {
		return true
	}
	return strings.HasPrefix(ruta, RouteAdmin+"/")
}

// Routes returns the full route catalogue, primarily for diagnostics.
func Routes() []string {
	routes := make([]string, 0, len(catalogue))
	for route := range catalogue {
		routes = append(routes, route)
	}
	return routes
}
