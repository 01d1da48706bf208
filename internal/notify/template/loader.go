package template

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"strings"
	"sync"
	"text/template"
	"time"

	"ipwatch/internal/types"

	"go.uber.org/zap"
)

//go:embed email/*
var templateFS embed.FS

// Type represents the type of notification template
type Type string

const (
	Email Type = "email"
)

// IPChange is the name of the address change template
const IPChange = "ip_change"

// Loader manages notification templates
type Loader struct {
	logger     *zap.Logger
	templates  map[Type]*template.Template
	customTpls map[Type]map[string]*template.Template
	mu         sync.RWMutex
}

// NewLoader creates new template loader
func NewLoader(logger *zap.Logger) (*Loader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loader := &Loader{
		logger:     logger,
		templates:  make(map[Type]*template.Template),
		customTpls: make(map[Type]map[string]*template.Template),
	}

	if err := loader.loadDefaultTemplates(); err != nil {
		return nil, err
	}

	return loader, nil
}

// loadDefaultTemplates loads templates from embedded filesystem
func (t *Loader) loadDefaultTemplates() error {
	for _, tplType := range []Type{Email} {
		dir := string(tplType)
		tmpl := template.New("").Funcs(templateFuncs)

		entries, err := templateFS.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to read template directory: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			content, err := templateFS.ReadFile(path.Join(dir, entry.Name()))
			if err != nil {
				return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
			}

			name := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
			if _, err := tmpl.New(name).Parse(string(content)); err != nil {
				return fmt.Errorf("failed to parse template %s: %w", entry.Name(), err)
			}
		}

		t.templates[tplType] = tmpl
	}

	return nil
}

// SetCustomTemplate overrides a default template
func (t *Loader) SetCustomTemplate(tplType Type, name, content string) error {
	tmpl, err := template.New(name).Funcs(templateFuncs).Parse(content)
	if err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.customTpls[tplType]; !ok {
		t.customTpls[tplType] = make(map[string]*template.Template)
	}
	t.customTpls[tplType][name] = tmpl
	return nil
}

// GetTemplate returns the template for given type and name
func (t *Loader) GetTemplate(tplType Type, name string) (*template.Template, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if tmpl, ok := t.customTpls[tplType][name]; ok {
		return tmpl, nil
	}

	if tmpl, ok := t.templates[tplType]; ok {
		if found := tmpl.Lookup(name); found != nil {
			return found, nil
		}
	}

	return nil, fmt.Errorf("template not found: %s/%s", tplType, name)
}

// Render executes the named template with data
func (t *Loader) Render(tplType Type, name string, data any) (string, error) {
	tmpl, err := t.GetTemplate(tplType, name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s/%s: %w", tplType, name, err)
	}
	return buf.String(), nil
}

// IPChangeData is the data passed to the ip_change template
type IPChangeData struct {
	OldAddress string
	NewAddress string
	Hostname   string
	ChangedAt  time.Time
	First      bool
}

// NewIPChangeData builds template data for record
func NewIPChangeData(record *types.IPChangeRecord, hostname string) IPChangeData {
	return IPChangeData{
		OldAddress: record.OldAddress.String(),
		NewAddress: record.NewAddress,
		Hostname:   hostname,
		ChangedAt:  record.ChangedAt,
		First:      record.IsFirst(),
	}
}

// Template functions available in all templates
var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		return t.Format(types.ChangeDateLayout)
	},
	"join": strings.Join,
}
