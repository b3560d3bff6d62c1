package service

import "github.com/corebank/portal-gateway/internal/core/domain"

// View is a navigable page of the portal.
type View struct {
	Resource domain.ProtectedResource
	Path     string
	// Labels holds the menu label per role; Label is the fallback.
	Label  string
	Labels map[domain.Role]string
}

// MenuItem is one entry of the navigation menu.
type MenuItem struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// Views is the ordered view registry. Menu order follows this order.
var Views = []View{
	{Resource: domain.NewResource("dashboard"), Path: "/dashboard", Label: "Dashboard"},
	{Resource: domain.NewResource("clients", domain.RoleBanker), Path: "/clients", Label: "Manage Clients"},
	{Resource: domain.NewResource("applications", domain.RoleBanker), Path: "/applications", Label: "Applications"},
	{Resource: domain.NewResource("bankers", domain.RoleAdmin), Path: "/bankers", Label: "Manage Bankers"},
	{
		Resource: domain.NewResource("accounts", domain.RoleClient, domain.RoleBanker),
		Path:     "/accounts",
		Label:    "Accounts",
		Labels:   map[domain.Role]string{domain.RoleClient: "My Accounts", domain.RoleBanker: "All Accounts"},
	},
	{
		Resource: domain.NewResource("cards", domain.RoleClient, domain.RoleBanker),
		Path:     "/cards",
		Label:    "Cards",
		Labels:   map[domain.Role]string{domain.RoleClient: "My Cards", domain.RoleBanker: "All Cards"},
	},
	{
		Resource: domain.NewResource("transactions", domain.RoleClient, domain.RoleBanker),
		Path:     "/transactions",
		Label:    "Transactions",
		Labels:   map[domain.Role]string{domain.RoleBanker: "All Transactions"},
	},
	{Resource: domain.NewResource("transfer", domain.RoleClient), Path: "/transfer", Label: "New Transfer"},
}

// Action resources.
var (
	ActionTransferOpen     = domain.NewResource("transfer.open", domain.RoleClient)
	ActionTransferRead     = domain.NewResource("transfer.read", domain.RoleClient)
	ActionTransferEdit     = domain.NewResource("transfer.edit", domain.RoleClient)
	ActionTransferSubmit   = domain.NewResource("transfer.submit", domain.RoleClient)
	ActionTransferCancel   = domain.NewResource("transfer.cancel", domain.RoleClient)
	ActionEligibleAccounts = domain.NewResource("accounts.eligible", domain.RoleClient)
	ActionNavigation       = domain.NewResource("navigation")
	ActionNotifications    = domain.NewResource("notifications")
)

// LookupView returns the registered view with the given name.
func LookupView(name string) (View, bool) {
	for _, v := range Views {
		if v.Resource.Name == name {
			return v, true
		}
	}
	return View{}, false
}

// Navigation returns the menu for session: every registered view it is
// authorized for, in registry order. An empty session gets no items.
func Navigation(session *domain.Session) []MenuItem {
	items := make([]MenuItem, 0, len(Views))
	for _, v := range Views {
		if !Authorize(session, v.Resource).Allowed {
			continue
		}
		label := v.Label
		if l, ok := v.Labels[session.Role()]; ok {
			label = l
		}
		items = append(items, MenuItem{Path: v.Path, Label: label})
	}
	return items
}
