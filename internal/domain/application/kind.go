package application

// Link names one optional URL field of a work submission.
type Link string

const (
	LinkGitHub Link = "github_url"
	LinkLive   Link = "live_url"
	LinkDocs   Link = "docs_url"
)

// Kind carries everything that differs between project and internship
// applications. The lifecycle rules are shared.
type Kind struct {
	Name     string
	Table    string
	RefField string
	Links    []Link
}

var (
	KindProject = Kind{
		Name:     "project",
		Table:    "project_applications",
		RefField: "project_id",
		Links:    []Link{LinkGitHub, LinkLive, LinkDocs},
	}
	KindInternship = Kind{
		Name:     "internship",
		Table:    "internship_applications",
		RefField: "internship_id",
		Links:    []Link{LinkGitHub, LinkLive},
	}
)

// Kinds lists every kind in the order "my applications" reports them.
var Kinds = []Kind{KindInternship, KindProject}

func (k Kind) Accepts(l Link) bool {
	for _, x := range k.Links {
		if x == l {
			return true
		}
	}
	return false
}
