package page

// Category names one of the fixed page groupings of the site.
type Category string

const (
	CategoryAbout    Category = "about"
	CategoryBlog     Category = "blog"
	CategoryLinklist Category = "linklist"
	CategoryProjects Category = "projects"
	CategoryServices Category = "services"
)

// Categories lists every page category in load order.
var Categories = []Category{
	CategoryAbout,
	CategoryBlog,
	CategoryLinklist,
	CategoryProjects,
	CategoryServices,
}

// ParseCategory maps a name onto a known category.
func ParseCategory(name string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}
