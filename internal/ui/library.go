package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"FlipCards/internal/net"
	"FlipCards/internal/session"
	"FlipCards/internal/state"
	"FlipCards/internal/store"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const browseTimeout = 3 * time.Second

var errDeleteOpen = errors.New("the open project cannot be deleted")

// Library is the project store behind the library window.
type Library interface {
	List() ([]store.ProjectRecord, error)
	Create(name string) (*state.Project, error)
	Load(id string) (*state.Project, error)
	Rename(id, name string) error
	Delete(id string) error
}

// libraryView lists the projects of a library and opens, creates, renames
// and deletes them.
type libraryView struct {
	lib    Library
	editor *session.Editor
	open   func(*state.Project)

	records  []store.ProjectRecord
	selected int
	list     *widget.List
}

func newLibraryView(lib Library, e *session.Editor, open func(*state.Project)) *libraryView {
	v := &libraryView{lib: lib, editor: e, open: open, selected: -1}
	v.list = widget.NewList(
		func() int { return len(v.records) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			rec := v.records[id]
			obj.(*widget.Label).SetText(fmt.Sprintf("%s  (%s)", rec.Name, rec.CreatedAt.Format("2 Jan 2006 15:04")))
		},
	)
	v.list.OnSelected = func(id widget.ListItemID) { v.selected = id }
	v.list.OnUnselected = func(widget.ListItemID) { v.selected = -1 }
	return v
}

func (v *libraryView) reload() error {
	records, err := v.lib.List()
	if err != nil {
		return err
	}
	v.records = records
	v.selected = -1
	v.list.UnselectAll()
	v.list.Refresh()
	return nil
}

func (v *libraryView) current() (store.ProjectRecord, bool) {
	if v.selected < 0 || v.selected >= len(v.records) {
		return store.ProjectRecord{}, false
	}
	return v.records[v.selected], true
}

func (v *libraryView) create(name string) error {
	p, err := v.lib.Create(name)
	if err != nil {
		return err
	}
	v.open(p)
	return v.reload()
}

func (v *libraryView) openSelected() error {
	rec, ok := v.current()
	if !ok {
		return nil
	}
	p, err := v.lib.Load(rec.ID)
	if err != nil {
		return err
	}
	v.open(p)
	return nil
}

// renameSelected renames the selected project. Renaming the open project
// also renames it in the editor, so the next save keeps the new name.
func (v *libraryView) renameSelected(name string) error {
	rec, ok := v.current()
	if !ok {
		return nil
	}
	if err := v.lib.Rename(rec.ID, name); err != nil {
		return err
	}
	if openID, _ := v.editor.ProjectInfo(); openID == rec.ID {
		var open *state.Project
		v.editor.WithProject(func(p *state.Project) {
			p.Name = name
			if p.Name == "" {
				p.Name = store.DefaultName
			}
			open = p
		})
		v.open(open)
	}
	return v.reload()
}

func (v *libraryView) deleteSelected() error {
	rec, ok := v.current()
	if !ok {
		return nil
	}
	if openID, _ := v.editor.ProjectInfo(); openID == rec.ID {
		return errDeleteOpen
	}
	if err := v.lib.Delete(rec.ID); err != nil {
		return err
	}
	return v.reload()
}

// showLibrary opens the library window. importFn may be nil, which hides
// the search for shared decks.
func showLibrary(w fyne.Window, v *libraryView, importFn ImportFunc) {
	if err := v.reload(); err != nil {
		dialog.ShowError(err, w)
		return
	}

	var d dialog.Dialog
	report := func(err error) {
		if err != nil {
			log.Printf("[UI] Library: %v", err)
			dialog.ShowError(err, w)
		}
	}
	askName := func(title, initial string, done func(string)) {
		entry := widget.NewEntry()
		entry.SetText(initial)
		dialog.ShowForm(title, "OK", "Cancel", []*widget.FormItem{widget.NewFormItem("Name", entry)}, func(ok bool) {
			if ok {
				done(entry.Text)
			}
		}, w)
	}

	buttons := container.NewHBox(
		widget.NewButtonWithIcon("New", theme.ContentAddIcon(), func() {
			askName("New project", "", func(name string) {
				report(v.create(name))
				d.Hide()
			})
		}),
		widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), func() {
			if _, ok := v.current(); ok {
				report(v.openSelected())
				d.Hide()
			}
		}),
		widget.NewButtonWithIcon("Rename", theme.DocumentCreateIcon(), func() {
			if rec, ok := v.current(); ok {
				askName("Rename project", rec.Name, func(name string) { report(v.renameSelected(name)) })
			}
		}),
		widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
			rec, ok := v.current()
			if !ok {
				return
			}
			dialog.ShowConfirm("Delete project", fmt.Sprintf("Delete %q?", rec.Name), func(yes bool) {
				if yes {
					report(v.deleteSelected())
				}
			}, w)
		}),
	)
	if importFn != nil {
		buttons.Add(widget.NewButtonWithIcon("Shared decks", theme.SearchIcon(), func() {
			d.Hide()
			showDiscovery(w, importFn, v.open)
		}))
	}

	content := container.NewBorder(nil, buttons, nil, nil, v.list)
	d = dialog.NewCustom("Library", "Close", content, w)
	d.Resize(fyne.NewSize(520, 420))
	d.Show()
}

// ImportFunc fetches the project behind a share link into the library.
type ImportFunc func(ctx context.Context, link string) (*state.Project, error)

// showDiscovery browses the LAN for shared decks and imports the one picked.
func showDiscovery(w fyne.Window, importFn ImportFunc, open func(*state.Project)) {
	var services []net.Service
	status := widget.NewLabel("Searching...")
	list := widget.NewList(
		func() int { return len(services) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			s := services[id]
			obj.(*widget.Label).SetText(fmt.Sprintf("%s  (%s)", s.Name(), s.Addr))
		},
	)

	d := dialog.NewCustom("Shared decks", "Close", container.NewBorder(status, nil, nil, nil, list), w)
	list.OnSelected = func(id widget.ListItemID) {
		link, ok := services[id].Link()
		if !ok {
			return
		}
		status.SetText("Importing...")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
			defer cancel()
			p, err := importFn(ctx, link)
			fyne.Do(func() {
				if err != nil {
					status.SetText("Import failed")
					dialog.ShowError(err, w)
					return
				}
				d.Hide()
				open(p)
			})
		}()
	}

	go func() {
		err := net.Browse(browseTimeout, func(s net.Service) {
			fyne.Do(func() {
				services = append(services, s)
				list.Refresh()
			})
		})
		fyne.Do(func() {
			switch {
			case err != nil:
				log.Printf("[UI] Browse failed: %v", err)
				status.SetText("Search failed")
			case len(services) == 0:
				status.SetText("No shared decks found")
			default:
				status.SetText("Pick a deck to import")
			}
		})
	}()

	d.Resize(fyne.NewSize(420, 320))
	d.Show()
}
