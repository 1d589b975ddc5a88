// Package policy is the single source of truth for mapping role sets to
// permitted actions, routes, and dashboard content. Route guards and view
// handlers both consult it, so they agree by construction. All lookups are
// pure table lookups: same inputs, same outputs, across restarts.
package policy

import (
	"github.com/landinvestpro/marketplace-gateway/internal/core/domain"
)

// Action is a closed enumeration of things a user can do in the UI.
type Action string

const (
	ActionViewDashboard    Action = "view_dashboard"
	ActionManageUsers      Action = "manage_users"
	ActionReviewContent    Action = "review_content"
	ActionManageProperties Action = "manage_properties"
	ActionBrowseInvest     Action = "browse_investments"
	ActionManageSales      Action = "manage_sales"
	ActionPerformAnalysis  Action = "perform_analysis"
	ActionManageProjects   Action = "manage_projects"
	ActionGovernanceReview Action = "governance_review"
	ActionViewReports      Action = "view_reports"
	ActionManageSettings   Action = "manage_settings"
	ActionUploadDocuments  Action = "upload_documents"
	ActionCreateProjects   Action = "create_projects"
	ActionApproveContent   Action = "approve_content"
	ActionViewAnalytics    Action = "view_analytics"
)

// actionRoles enumerates which roles satisfy each action. Administrator is
// handled centrally in CanPerform and never listed. An empty list means
// administrator only. Keeping the matrix explicit makes access changes
// reviewable in one place.
var actionRoles = map[Action][]domain.Role{
	ActionViewDashboard: {
		domain.RoleLandowner, domain.RoleInvestor, domain.RoleAnalyst,
		domain.RoleSalesAdvisor, domain.RoleGovernanceLead,
		domain.RoleProjectManager, domain.RoleOwner, domain.RoleReviewer,
	},
	ActionManageUsers:      {},
	ActionReviewContent:    {domain.RoleReviewer, domain.RoleGovernanceLead},
	ActionManageProperties: {domain.RoleLandowner, domain.RoleOwner},
	ActionBrowseInvest:     {domain.RoleInvestor},
	ActionManageSales:      {domain.RoleSalesAdvisor},
	ActionPerformAnalysis:  {domain.RoleAnalyst},
	ActionManageProjects:   {domain.RoleProjectManager},
	ActionGovernanceReview: {domain.RoleGovernanceLead},
	ActionViewReports:      {domain.RoleReviewer, domain.RoleGovernanceLead},
	ActionManageSettings:   {},
	ActionUploadDocuments:  {domain.RoleLandowner, domain.RoleOwner},
	ActionCreateProjects:   {domain.RoleProjectManager},
	ActionApproveContent:   {domain.RoleReviewer, domain.RoleGovernanceLead},
	ActionViewAnalytics:    {domain.RoleAnalyst},
}

// Actions returns every defined action tag in a stable order.
func Actions() []Action {
	return []Action{
		ActionViewDashboard,
		ActionManageUsers,
		ActionReviewContent,
		ActionManageProperties,
		ActionBrowseInvest,
		ActionManageSales,
		ActionPerformAnalysis,
		ActionManageProjects,
		ActionGovernanceReview,
		ActionViewReports,
		ActionManageSettings,
		ActionUploadDocuments,
		ActionCreateProjects,
		ActionApproveContent,
		ActionViewAnalytics,
	}
}

func isAdmin(roles []domain.Role) bool {
	return hasRole(roles, domain.RoleAdministrator)
}

func hasRole(roles []domain.Role, want domain.Role) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}

func hasAny(roles []domain.Role, want ...domain.Role) bool {
	for _, w := range want {
		if hasRole(roles, w) {
			return true
		}
	}
	return false
}

// CanPerform reports whether the role set may perform the action.
// Unknown actions deny for every role set, administrators included.
// Administrators are allowed every defined action.
func CanPerform(roles []domain.Role, action Action) bool {
	allowed, known := actionRoles[action]
	if !known {
		return false
	}
	if isAdmin(roles) {
		return true
	}
	return hasAny(roles, allowed...)
}

// baselineRoutes are visible to every authenticated user regardless of role.
var baselineRoutes = []string{
	"/dashboard",
	"/marketplace",
	"/document-management",
	"/profile",
	"/settings",
}

// AccessibleRoutes derives the UI routes visible to the role set, baseline
// first, then role blocks in vocabulary order. Administrators see every
// block. The result order is deterministic and duplicate-free.
func AccessibleRoutes(roles []domain.Role) []string {
	routes := make([]string, 0, 32)
	routes = append(routes, baselineRoutes...)

	admin := isAdmin(roles)
	add := func(granted bool, paths ...string) {
		if granted || admin {
			routes = append(routes, paths...)
		}
	}

	add(hasAny(roles, domain.RoleLandowner, domain.RoleOwner),
		"/landowner/properties", "/landowner/inquiries", "/landowner/documents")
	add(hasRole(roles, domain.RoleInvestor),
		"/investor/browse", "/investor/portfolio", "/investor/analysis")
	add(false, // administrator block
		"/admin/users", "/admin/reports", "/admin/review", "/admin/settings")
	add(hasRole(roles, domain.RoleGovernanceLead),
		"/governance/review", "/governance/compliance", "/governance/policies")
	add(hasRole(roles, domain.RoleSalesAdvisor),
		"/sales/pipeline", "/sales/clients", "/sales/deals")
	add(hasRole(roles, domain.RoleAnalyst),
		"/analyst/queue", "/analyst/reports", "/analyst/tools")
	add(hasRole(roles, domain.RoleProjectManager),
		"/project-management", "/project-management/tasks", "/project-management/team")
	add(hasAny(roles, domain.RoleReviewer, domain.RoleGovernanceLead),
		"/document-review")

	return dedupe(routes)
}

// baselineComponents mount on every dashboard regardless of role.
var baselineComponents = []string{"metrics", "activity", "quick-actions"}

// DashboardComponents derives which dashboard widgets to mount for the
// role set. Same fail-closed default as routes: no matching role, no widget.
func DashboardComponents(roles []domain.Role) []string {
	components := make([]string, 0, 24)
	components = append(components, baselineComponents...)

	admin := isAdmin(roles)
	add := func(granted bool, tags ...string) {
		if granted || admin {
			components = append(components, tags...)
		}
	}

	add(hasRole(roles, domain.RoleInvestor),
		"portfolio", "investment-opportunities")
	add(hasAny(roles, domain.RoleLandowner, domain.RoleOwner),
		"property-status", "inquiries", "revenue")
	add(false, // administrator block
		"system-overview", "user-management", "reports")
	add(hasRole(roles, domain.RoleGovernanceLead),
		"review-queue", "compliance", "policies")
	add(hasRole(roles, domain.RoleSalesAdvisor),
		"sales-pipeline", "clients", "deals")
	add(hasRole(roles, domain.RoleAnalyst),
		"analysis-queue", "analyst-reports", "data-tools")
	add(hasRole(roles, domain.RoleProjectManager),
		"project-status", "tasks", "team")

	return dedupe(components)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
