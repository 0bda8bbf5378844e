// Package content loads the static portfolio shown after the intro.
//
// A [Portfolio] is read from YAML. The file is found by [ResolvePath];
// when none exists the embedded default portfolio is used, so the program
// always has something to show.
//
// Key types:
//   - [Portfolio] is the complete page data
//   - [Reader] resolves and parses the portfolio file
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultPortfolio []byte

// EnvContentPath names the environment variable that overrides portfolio
// discovery.
const EnvContentPath = "FOLIO_CONTENT_PATH"

// DefaultFile is the portfolio file looked for under the base path.
const DefaultFile = "portfolio.yaml"

// Sentinel errors for portfolio validation.
var (
	// ErrMissingName indicates the hero section has no name.
	ErrMissingName = errors.New("hero name is required")

	// ErrDuplicateProject indicates two projects share a title.
	ErrDuplicateProject = errors.New("duplicate project title")

	// ErrUnknownSection indicates a section name that does not exist.
	ErrUnknownSection = errors.New("unknown section")
)

// Section identifies one part of the page.
type Section string

// Page sections in display order.
const (
	SectionHero     Section = "hero"
	SectionAbout    Section = "about"
	SectionProjects Section = "projects"
	SectionResearch Section = "research"
	SectionSkills   Section = "skills"
	SectionContact  Section = "contact"
)

// Sections lists every page section in display order.
var Sections = []Section{
	SectionHero,
	SectionAbout,
	SectionProjects,
	SectionResearch,
	SectionSkills,
	SectionContact,
}

// Title returns the display heading of the section.
func (s Section) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// ParseSection returns the section named name, case-insensitively.
func ParseSection(name string) (Section, error) {
	for _, s := range Sections {
		if strings.EqualFold(string(s), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownSection)
}

// Portfolio is the data behind the page.
type Portfolio struct {
	Hero     Hero         `yaml:"hero"`
	About    About        `yaml:"about"`
	Projects []Project    `yaml:"projects"`
	Research []Research   `yaml:"research"`
	Skills   []SkillGroup `yaml:"skills"`
	Contact  Contact      `yaml:"contact"`
}

// Hero is the page header.
type Hero struct {
	Name    string `yaml:"name"`
	Title   string `yaml:"title"`
	Tagline string `yaml:"tagline"`
}

// About is a free-form markdown introduction.
type About struct {
	Markdown string `yaml:"markdown"`
}

// Project is one portfolio project card.
type Project struct {
	Title       string   `yaml:"title"`
	Subtitle    string   `yaml:"subtitle"`
	Status      string   `yaml:"status"`
	Description string   `yaml:"description"`
	Tech        []string `yaml:"tech"`
}

// Research is one research interest, with an optional paper link.
type Research struct {
	Title    string `yaml:"title"`
	Markdown string `yaml:"markdown"`
	Link     string `yaml:"link,omitempty"`
}

// SkillGroup is a titled list of tools.
type SkillGroup struct {
	Title string   `yaml:"title"`
	Tools []string `yaml:"tools"`
}

// Contact holds the contact details.
type Contact struct {
	Email    string `yaml:"email"`
	Location string `yaml:"location"`
	Links    []Link `yaml:"links"`
}

// Link is a labelled URL.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Validate checks the portfolio for a hero name and unique project titles.
func (p *Portfolio) Validate() error {
	if strings.TrimSpace(p.Hero.Name) == "" {
		return ErrMissingName
	}
	seen := make(map[string]bool, len(p.Projects))
	for _, proj := range p.Projects {
		key := strings.ToLower(strings.TrimSpace(proj.Title))
		if seen[key] {
			return fmt.Errorf("%q: %w", proj.Title, ErrDuplicateProject)
		}
		seen[key] = true
	}
	return nil
}

// SectionTitles returns the headings of every section after the hero, for
// skins that sketch the page.
func (p *Portfolio) SectionTitles() []string {
	titles := make([]string, 0, len(Sections)-1)
	for _, s := range Sections[1:] {
		titles = append(titles, s.Title())
	}
	return titles
}

// Parse decodes and validates a portfolio.
func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid portfolio: %w", err)
	}
	return &p, nil
}

// Default returns the embedded portfolio.
func Default() *Portfolio {
	p, err := Parse(defaultPortfolio)
	if err != nil {
		panic(fmt.Sprintf("content: embedded portfolio: %v", err))
	}
	return p
}

// ResolvePath discovers the portfolio file.
//
// Resolution order:
//  1. FOLIO_CONTENT_PATH environment variable (used as-is if set)
//  2. Explicit contentPath parameter (if non-empty)
//  3. portfolio.yaml under basePath, if it exists
//  4. Empty string, meaning the embedded default
//
// The basePath is the directory to search. Pass empty string for cwd.
func ResolvePath(basePath, contentPath string) string {
	if envPath := os.Getenv(EnvContentPath); envPath != "" {
		return envPath
	}
	if contentPath != "" {
		return contentPath
	}
	candidate := filepath.Join(basePath, DefaultFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// Reader loads portfolios.
//
// Use [NewReader] for discovery or [NewReaderWithPath] for an explicit path.
type Reader struct {
	path string
}

// NewReader creates a [Reader] that discovers the portfolio under basePath.
func NewReader(basePath string) *Reader {
	return &Reader{path: ResolvePath(basePath, "")}
}

// NewReaderWithPath creates a [Reader] for contentPath. The
// FOLIO_CONTENT_PATH environment variable still takes priority if set.
func NewReaderWithPath(basePath, contentPath string) *Reader {
	return &Reader{path: ResolvePath(basePath, contentPath)}
}

// Path returns the resolved portfolio path, or empty for the embedded default.
func (r *Reader) Path() string { return r.path }

// Read loads and validates the portfolio.
//
// An explicitly resolved file that cannot be read is an error; it never
// falls back to the embedded default.
func (r *Reader) Read() (*Portfolio, error) {
	if r.path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio: %w", err)
	}
	return Parse(data)
}
