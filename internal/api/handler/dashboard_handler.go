package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/landinvestpro/marketplace-gateway/internal/core/domain"
	"github.com/landinvestpro/marketplace-gateway/internal/core/policy"
)

// DashboardHandler selects the role-appropriate dashboard view. All
// branching goes through the policy package; the handler adds no role
// logic of its own.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// quickAction describes one action tile the current user may use.
type quickAction struct {
	Action policy.Action `json:"action"`
	Label  string        `json:"label"`
	Route  string        `json:"route"`
}

// quickActionCatalog lists every action tile the dashboard can offer. Which
// subset renders is decided per request by policy.CanPerform.
var quickActionCatalog = []quickAction{
	{policy.ActionManageUsers, "Manage Users", "/admin/users"},
	{policy.ActionManageProperties, "Manage Properties", "/landowner/properties"},
	{policy.ActionBrowseInvest, "Browse Investments", "/investor/browse"},
	{policy.ActionUploadDocuments, "Upload Documents", "/landowner/documents"},
	{policy.ActionReviewContent, "Review Documents", "/document-review"},
	{policy.ActionManageSales, "Sales Pipeline", "/sales/pipeline"},
	{policy.ActionPerformAnalysis, "Analysis Queue", "/analyst/queue"},
	{policy.ActionCreateProjects, "Create Project", "/project-management"},
	{policy.ActionGovernanceReview, "Governance Review", "/governance/review"},
	{policy.ActionViewReports, "View Reports", "/admin/reports"},
	{policy.ActionManageSettings, "Settings", "/admin/settings"},
}

type dashboardResponse struct {
	Variant      policy.Variant `json:"variant"`
	Components   []string       `json:"components"`
	QuickActions []quickAction  `json:"quick_actions"`
	User         *domain.User   `json:"user"`
}

// View returns the dashboard descriptor for the current role set: which
// variant to render, which widgets to mount, and which quick actions to
// offer. Multi-role users get the variant chosen by the fixed precedence
// order; unknown role sets get the default variant, never an empty page.
//
// @Summary      Role-aware dashboard
// @Tags         views
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  map[string]string
// @Router       /dashboard [get]
func (h *DashboardHandler) View(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	roles := sess.User.Roles
	actions := make([]quickAction, 0, len(quickActionCatalog))
	for _, qa := range quickActionCatalog {
		if policy.CanPerform(roles, qa.Action) {
			actions = append(actions, qa)
		}
	}

	return c.JSON(http.StatusOK, dashboardResponse{
		Variant:      policy.SelectVariant(roles),
		Components:   policy.DashboardComponents(roles),
		QuickActions: actions,
		User:         &sess.User,
	})
}

type navigationResponse struct {
	Routes []string `json:"routes"`
}

// Navigation returns the routes visible to the current role set, for the
// sidebar. Same policy table the guards use, so the sidebar never links to
// a page the guard would deny.
//
// @Summary      Accessible routes
// @Tags         views
// @Produce      json
// @Success      200  {object}  navigationResponse
// @Failure      401  {object}  map[string]string
// @Router       /navigation [get]
func (h *DashboardHandler) Navigation(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, navigationResponse{
		Routes: policy.AccessibleRoutes(sess.User.Roles),
	})
}
