package views

// NavLink is one sidebar entry.
type NavLink struct {
	Path   string `json:"path"`
	Icon   string `json:"icon"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type AdminSidebar struct {
	Title        string    `json:"title"`
	Links        []NavLink `json:"links"`
	CitizenLink  NavLink   `json:"citizenLink"`
	LogoutAction string    `json:"logoutAction"`
}

var adminLinks = []NavLink{
	{Path: "/admin/dashboard", Icon: "layout-dashboard", Label: "Dashboard"},
	{Path: "/admin/issues", Icon: "alert-triangle", Label: "Manage Issues"},
	{Path: "/admin/announcements", Icon: "megaphone", Label: "Announcements"},
	{Path: "/admin/feedback", Icon: "message-square", Label: "Feedback"},
}

// NewAdminSidebar marks the link whose path equals currentPath as active.
func NewAdminSidebar(currentPath string) AdminSidebar {
	links := make([]NavLink, len(adminLinks))
	for i, l := range adminLinks {
		l.Active = l.Path == currentPath
		links[i] = l
	}
	return AdminSidebar{
		Title:        "Admin Portal",
		Links:        links,
		CitizenLink:  NavLink{Path: "/", Icon: "eye", Label: "View Citizen Portal"},
		LogoutAction: "/api/auth/logout",
	}
}

// QuickAction is a button on the citizen home page.
type QuickAction struct {
	Path    string `json:"path"`
	Label   string `json:"label"`
	Primary bool   `json:"primary"`
}

type Home struct {
	Heading      string        `json:"heading"`
	Intro        string        `json:"intro"`
	CallToAction QuickAction   `json:"callToAction"`
	QuickActions []QuickAction `json:"quickActions"`
}

const (
	AppName    = "Setshaba Connect"
	AppTagline = "Professional community management platform for reporting and tracking municipal issues."
)

func NewHome() Home {
	report := QuickAction{Path: "/report", Label: "Report an Issue", Primary: true}
	return Home{
		Heading:      "Welcome to " + AppName,
		Intro:        AppTagline,
		CallToAction: report,
		QuickActions: []QuickAction{
			report,
			{Path: "/issues", Label: "Track Issues"},
			{Path: "/feedback", Label: "Give Feedback"},
		},
	}
}

// Splash is shown while the client loads.
type Splash struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
	Version string `json:"version"`
}

func NewSplash(version string) Splash {
	return Splash{Name: AppName, Tagline: "Connecting citizens with their municipality", Version: version}
}
