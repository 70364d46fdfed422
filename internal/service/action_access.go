package service

import "github.com/noah-isme/network-actions-api/internal/models"

// CanEdit decides whether identity may modify action given the current academic year.
// Admins always may. Everyone else is frozen out of records whose quarter is unknown
// or inactive; past that gate general coordinators may edit anything, subnet
// coordinators their own network and every other role only what they authored.
func CanEdit(action models.Action, identity models.Identity, year *models.AcademicYear) bool {
	if identity.Role == models.RoleAdmin {
		return true
	}
	quarter, ok := year.FindQuarter(action.Quarter)
	if !ok || !quarter.IsActive {
		return false
	}
	switch identity.Role {
	case models.RoleGeneralCoordinator:
		return true
	case models.RoleSubnetCoordinator:
		return action.Network == identity.Network
	default:
		return action.CreatedBy == identity.ID
	}
}

// VisibilityScope returns the subset of actions identity may read in reports.
// The input slice is never modified.
func VisibilityScope(identity models.Identity, actions []models.Action) []models.Action {
	var keep func(models.Action) bool
	switch identity.Role {
	case models.RoleAdmin, models.RoleGeneralCoordinator:
		keep = func(models.Action) bool { return true }
	case models.RoleSubnetCoordinator:
		keep = func(a models.Action) bool { return a.Network == identity.Network }
	case models.RoleManager:
		keep = func(a models.Action) bool { return a.Center == identity.Center }
	default:
		return []models.Action{}
	}

	out := make([]models.Action, 0, len(actions))
	for _, a := range actions {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// scopeFor names the report audience for identity.
func scopeFor(identity models.Identity) models.ReportScope {
	switch identity.Role {
	case models.RoleSubnetCoordinator:
		return models.ReportScopeNetwork
	case models.RoleManager:
		return models.ReportScopeCenter
	default:
		return models.ReportScopeGeneral
	}
}

// CanReport reports whether identity has any report access.
func CanReport(identity models.Identity) bool {
	switch identity.Role {
	case models.RoleAdmin, models.RoleGeneralCoordinator, models.RoleSubnetCoordinator, models.RoleManager:
		return true
	default:
		return false
	}
}
