// Package nav describes the sidebar navigation tree.
package nav

import "strings"

// Item is one sidebar entry.
type Item struct {
	Label    string `json:"label"`
	Href     string `json:"href"`
	Icon     string `json:"icon"`
	Current  bool   `json:"current"`
	Children []Item `json:"children,omitempty"`

	// Inert entries link somewhere but are never highlighted.
	Inert bool `json:"-"`
}

// Tree is the sidebar, in display order.
func Tree() []Item {
	return []Item{
		{Label: "Dashboard", Href: "/", Icon: "home"},
		{
			Label: "Gestión de Cargas",
			Href:  "/cargo-management",
			Icon:  "package",
			Children: []Item{
				{Label: "Ver Cargas", Href: "/cargo-management", Icon: "list"},
				{Label: "Crear Carga", Href: "/create-cargo", Icon: "plus"},
			},
		},
		{Label: "Mapa", Href: "/", Icon: "map", Inert: true},
		{Label: "Configuración", Href: "/settings", Icon: "settings"},
	}
}

// Evaluate returns a copy of items with Current set for the entries matching
// path. A parent is current when any child is.
func Evaluate(items []Item, path string) []Item {
	path = normalize(path)
	out := make([]Item, len(items))
	for i, it := range items {
		it.Children = Evaluate(it.Children, path)
		it.Current = false
		if !it.Inert {
			it.Current = normalize(it.Href) == path
			for _, c := range it.Children {
				if c.Current {
					it.Current = true
				}
			}
		}
		out[i] = it
	}
	return out
}

func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
