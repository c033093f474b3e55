package ui

// Region is a placeholder fragment shown in place of content.
type Region struct {
	Kind    string
	Message string
}

// Loading is the fragment shown while a fetch is pending.
func Loading(message string) Region {
	if message == "" {
		message = "Loading..."
	}
	return Region{Kind: "loading", Message: message}
}

// Empty is the fragment shown when there is nothing to list.
func Empty(message string) Region {
	if message == "" {
		message = "No results found."
	}
	return Region{Kind: "empty", Message: message}
}

// Failure is the inline error fragment.
func Failure(message string) Region {
	return Region{Kind: "error", Message: message}
}

// NavLink is a navbar entry.
type NavLink struct {
	Href   string
	Label  string
	Active bool
}

// Navigation returns the navbar with the link matching path marked active.
func Navigation(path string) []NavLink {
	links := []NavLink{
		{Href: "/", Label: "Tickets"},
		{Href: "/stats", Label: "Statistics"},
		{Href: "/about", Label: "About"},
	}
	if path == "" || path == "/index.html" {
		path = "/"
	}
	for i := range links {
		links[i].Active = links[i].Href == path
	}
	return links
}
