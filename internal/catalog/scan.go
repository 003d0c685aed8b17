// Package catalog lists the launcher entries of the application directories
package catalog

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"menuedit/internal/desktop"
	"menuedit/internal/models"
)

const desktopExt = ".desktop"

// Catalog scans one pair of application directories
type Catalog struct {
	systemDir  string
	userDir    string
	categories *CategoryMap
}

// New creates a Catalog. A nil category map uses the defaults.
func New(systemDir, userDir string, categories *CategoryMap) *Catalog {
	if categories == nil {
		categories = DefaultCategories()
	}
	return &Catalog{
		systemDir:  systemDir,
		userDir:    userDir,
		categories: categories,
	}
}

// Scan lists both directories with the default category map
func Scan(systemDir, userDir string) (models.Listing, error) {
	return New(systemDir, userDir, nil).Scan()
}

// Scan reads every .desktop file of both directories. A missing directory
// yields an empty section.
func (c *Catalog) Scan() (models.Listing, error) {
	system, err := c.scanDir(c.systemDir, models.ScopeSystem)
	if err != nil {
		return models.Listing{}, err
	}
	user, err := c.scanDir(c.userDir, models.ScopeUser)
	if err != nil {
		return models.Listing{}, err
	}

	overrides := make(map[string]bool, len(user.Apps))
	for _, app := range user.Apps {
		overrides[app.FileName] = true
	}
	for i := range system.Apps {
		system.Apps[i].Overridden = overrides[system.Apps[i].FileName]
	}

	log.Debug().
		Int("system", len(system.Apps)).
		Int("user", len(user.Apps)).
		Msg("Scanned application directories")

	return models.Listing{System: system, User: user}, nil
}

// listDirectory returns the .desktop file names in dir
func listDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("dir", dir).Msg("Directory does not exist")
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), desktopExt) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// scanDir reads the files of dir with a small worker pool
func (c *Catalog) scanDir(dir string, scope models.Scope) (models.Section, error) {
	section := models.Section{Path: dir, Apps: []models.Application{}}

	names, err := listDirectory(dir)
	if err != nil {
		return section, err
	}
	if len(names) == 0 {
		return section, nil
	}

	numWorkers := min(runtime.NumCPU()*2, 16, len(names))

	jobs := make(chan string, len(names))
	results := make(chan models.Application, len(names))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				if app, ok := c.readApplication(dir, name, scope); ok {
					results <- app
				}
			}
		}()
	}

	for _, name := range names {
		jobs <- name
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for app := range results {
		section.Apps = append(section.Apps, app)
	}
	SortApplications(section.Apps)
	return section, nil
}

func (c *Catalog) readApplication(dir, name string, scope models.Scope) (models.Application, bool) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Skipping unreadable desktop file")
		return models.Application{}, false
	}
	content := string(data)

	app := models.Application{
		Name:       name,
		FileName:   name,
		Path:       path,
		Categories: Uncategorized,
		Scope:      scope,
	}
	if v, ok := desktop.Value(content, "Name"); ok && v != "" {
		app.Name = v
	}
	if v, ok := desktop.Value(content, "Categories"); ok && v != "" {
		app.Categories = v
	}
	if v, ok := desktop.Value(content, "NoDisplay"); ok {
		app.NoDisplay = strings.EqualFold(v, "true")
	}
	app.MainCategory = c.categories.MainCategory(app.Categories)
	return app, true
}

// SortApplications orders applications by name, case-insensitively
func SortApplications(apps []models.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		a, b := strings.ToLower(apps[i].Name), strings.ToLower(apps[j].Name)
		if a != b {
			return a < b
		}
		return apps[i].FileName < apps[j].FileName
	})
}

// Group groups applications by main category. Categories are sorted by name
// and the applications within each by name.
func Group(apps []models.Application) []models.Category {
	groups := make(map[string][]models.Application)
	for _, app := range apps {
		category := app.MainCategory
		if category == "" {
			category = Uncategorized
		}
		groups[category] = append(groups[category], app)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]models.Category, 0, len(names))
	for _, name := range names {
		SortApplications(groups[name])
		result = append(result, models.Category{Name: name, Apps: groups[name]})
	}
	return result
}
