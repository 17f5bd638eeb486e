// Package render turns a task list into container markup. It keeps no state
// between calls: the same list always yields the same markup.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/surface"
)

// Placeholder replaces the active list when it has no tasks.
const Placeholder = "no active tasks"

const (
	editIcon   = `<svg focusable="false" aria-hidden="true" viewBox="0 0 24 24" data-testid="EditIcon" aria-label="fontSize small"><path d="M3 17.25V21h3.75L17.81 9.94l-3.75-3.75L3 17.25zM20.71 7.04c.39-.39.39-1.02 0-1.41l-2.34-2.34a.9959.9959 0 0 0-1.41 0l-1.83 1.83 3.75 3.75 1.83-1.83z"></path></svg>`
	deleteIcon = `<svg focusable="false" aria-hidden="true" viewBox="0 0 24 24" data-testid="DeleteIcon" aria-label="fontSize small"><path d="M6 19c0 1.1.9 2 2 2h8c1.1 0 2-.9 2-2V7H6v12zM19 4h-3.5l-1-1h-5l-1 1H5v2h14V4z"></path></svg>`
)

//go:embed templates/*.html
var templatesFS embed.FS

var tmpl = template.Must(template.New("list").Funcs(template.FuncMap{
	"inputID":     func(id model.ID) string { return model.InputElementID(id) },
	"editIcon":    func() template.HTML { return editIcon },
	"deleteIcon":  func() template.HTML { return deleteIcon },
	"placeholder": func() string { return Placeholder },
}).ParseFS(templatesFS, "templates/*.html"))

// View is the markup of every container.
type View struct {
	Active   string
	Finished string
}

// Markup returns the markup of container c.
func (v View) Markup(c surface.Container) string {
	if c == surface.FinishedList {
		return v.Finished
	}
	return v.Active
}

// Render partitions tasks by completion and renders each container.
// Order within a container follows the input order.
func Render(tasks []model.Task) (View, error) {
	var active, finished []model.Task
	for _, t := range tasks {
		if t.Done {
			finished = append(finished, t)
		} else {
			active = append(active, t)
		}
	}

	var v View
	var err error
	if v.Active, err = execute("active", active); err != nil {
		return View{}, err
	}
	if v.Finished, err = execute("finished", finished); err != nil {
		return View{}, err
	}
	return v, nil
}

// Draw renders tasks and mounts every container on s.
func Draw(s surface.Surface, tasks []model.Task) error {
	v, err := Render(tasks)
	if err != nil {
		return err
	}
	for _, c := range surface.Containers {
		s.Mount(c, v.Markup(c))
	}
	return nil
}

func execute(name string, tasks []model.Task) (string, error) {
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, tasks); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return b.String(), nil
}
