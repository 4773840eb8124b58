// Package route holds the dashboard route table and the gate decision
// applied to every request.
package route

const (
	LoginPath = "/login"
	IndexPath = "/"
)

// Page is one renderable dashboard view.
type Page struct {
	Name     string
	Path     string
	Title    string
	Template string
}

// Login is the only public page.
var Login = Page{
	Name:     "login",
	Path:     LoginPath,
	Title:    "Sign in",
	Template: "login.html",
}

// Pages lists the protected pages in navigation order. Paths are exact
// and case-sensitive.
var Pages = []Page{
	{Name: "dashboard", Path: IndexPath, Title: "Dashboard", Template: "dashboard.html"},
	{Name: "sales", Path: "/sales", Title: "Sales", Template: "sales.html"},
	{Name: "products", Path: "/products", Title: "Products", Template: "products.html"},
	{Name: "customers", Path: "/customers", Title: "Customers", Template: "customers.html"},
	{Name: "inventory", Path: "/inventory", Title: "Inventory", Template: "inventory.html"},
	{Name: "reports", Path: "/reports", Title: "Reports", Template: "reports.html"},
	{Name: "settings", Path: "/settings", Title: "Settings", Template: "settings.html"},
}

// Lookup finds the protected page registered at path.
func Lookup(path string) (Page, bool) {
	for _, p := range Pages {
		if p.Path == path {
			return p, true
		}
	}
	return Page{}, false
}

type Outcome int

const (
	NotFound Outcome = iota
	Render
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "not_found"
	}
}

// Decision is what the gate does with a request.
type Decision struct {
	Outcome  Outcome
	Page     Page
	Location string
	// Layout is set when Page renders inside the authenticated layout.
	Layout bool
}

// Decide applies the gate to path for a session that is or is not
// authenticated. The login page always renders; protected pages render
// under the layout only when authenticated and otherwise redirect to the
// login page. Unknown paths are not found in either state.
func Decide(authenticated bool, path string) Decision {
	if path == LoginPath {
		return Decision{Outcome: Render, Page: Login}
	}

	page, ok := Lookup(path)
	if !ok {
		return Decision{Outcome: NotFound}
	}
	if !authenticated {
		return Decision{Outcome: Redirect, Location: LoginPath}
	}
	return Decision{Outcome: Render, Page: page, Layout: true}
}
