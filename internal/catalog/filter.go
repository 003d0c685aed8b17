package catalog

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"menuedit/internal/models"
)

// IsGlob reports whether query contains glob metacharacters
func IsGlob(query string) bool {
	return strings.ContainsAny(query, "*?[{")
}

// Filter returns the applications matching query. A plain query is a
// case-insensitive substring of the name. A glob query such as "org.gnome.*"
// is matched against the file name and the name.
func Filter(apps []models.Application, query string) []models.Application {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return apps
	}

	glob := IsGlob(query) && doublestar.ValidatePattern(query)

	result := make([]models.Application, 0, len(apps))
	for _, app := range apps {
		if matches(app, query, glob) {
			result = append(result, app)
		}
	}
	return result
}

func matches(app models.Application, query string, glob bool) bool {
	name := strings.ToLower(app.Name)
	if !glob {
		return strings.Contains(name, query)
	}
	for _, candidate := range []string{strings.ToLower(app.FileName), strings.ToLower(app.ID()), name} {
		if ok, _ := doublestar.Match(query, candidate); ok {
			return true
		}
	}
	return false
}

// Visible drops entries marked NoDisplay unless all is set
func Visible(apps []models.Application, all bool) []models.Application {
	if all {
		return apps
	}
	result := make([]models.Application, 0, len(apps))
	for _, app := range apps {
		if !app.NoDisplay {
			result = append(result, app)
		}
	}
	return result
}
