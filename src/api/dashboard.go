package api

import (
	"net/url"
	"strings"
)

// DefaultDashboardURL is the hosted dashboard
const DefaultDashboardURL = "https://cloud.trigger.dev"

// RunURL builds the dashboard link for a run. It returns "" when the
// project or run id is unknown.
func RunURL(dashboardURL, projectID, runID string) string {
	if projectID == "" || runID == "" {
		return ""
	}
	if dashboardURL == "" {
		dashboardURL = DefaultDashboardURL
	}
	return strings.TrimRight(dashboardURL, "/") +
		"/projects/v3/" + url.PathEscape(projectID) +
		"/runs/" + url.PathEscape(runID)
}
