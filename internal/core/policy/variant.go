package policy

import "github.com/landinvestpro/marketplace-gateway/internal/core/domain"

// Variant names a dashboard layout. Each maps one-to-one to a view the
// frontend knows how to render.
type Variant string

const (
	VariantInvestor       Variant = "investor"
	VariantLandowner      Variant = "landowner"
	VariantAdministrator  Variant = "administrator"
	VariantGovernance     Variant = "governance"
	VariantSales          Variant = "sales-advisor"
	VariantAnalyst        Variant = "analyst"
	VariantProjectManager Variant = "project-manager"
	VariantDefault        Variant = "default"
)

// variantPrecedence fixes which dashboard a multi-role user gets. The order
// is part of the contract: a user holding both investor and landowner roles
// always lands on the investor dashboard. The coarse owner tag selects the
// landowner variant.
var variantPrecedence = []struct {
	role    domain.Role
	variant Variant
}{
	{domain.RoleInvestor, VariantInvestor},
	{domain.RoleLandowner, VariantLandowner},
	{domain.RoleOwner, VariantLandowner},
	{domain.RoleAdministrator, VariantAdministrator},
	{domain.RoleGovernanceLead, VariantGovernance},
	{domain.RoleReviewer, VariantGovernance},
	{domain.RoleSalesAdvisor, VariantSales},
	{domain.RoleAnalyst, VariantAnalyst},
	{domain.RoleProjectManager, VariantProjectManager},
}

// SelectVariant picks the dashboard variant for a role set using the fixed
// precedence order. Unknown or empty role sets fall back to VariantDefault;
// the fallback always renders.
func SelectVariant(roles []domain.Role) Variant {
	for _, entry := range variantPrecedence {
		if hasRole(roles, entry.role) {
			return entry.variant
		}
	}
	return VariantDefault
}
