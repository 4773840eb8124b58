package web

import (
	"admin-dashboard/internal/route"
	"admin-dashboard/internal/session"
)

type NavItem struct {
	Title  string
	Path   string
	Active bool
}

type Stat struct {
	Label string
	Value string
}

// LayoutData is the view model shared by every protected page.
type LayoutData struct {
	Title       string
	CurrentPage string
	UserName    string
	Nav         []NavItem
	Stats       []Stat
}

// LoginData is the view model of the login page.
type LoginData struct {
	Error           string
	Email           string
	PasswordEnabled bool
	Providers       []string
}

// NewLayout builds the layout model for page as seen by user.
func NewLayout(page route.Page, user session.UserRecord) LayoutData {
	nav := make([]NavItem, 0, len(route.Pages))
	for _, p := range route.Pages {
		nav = append(nav, NavItem{Title: p.Title, Path: p.Path, Active: p.Name == page.Name})
	}

	data := LayoutData{
		Title:       page.Title,
		CurrentPage: page.Name,
		UserName:    user.DisplayName(),
		Nav:         nav,
	}
	if page.Path == route.IndexPath {
		data.Stats = []Stat{{Label: "Total Sales", Value: "$0"}}
	}
	return data
}
