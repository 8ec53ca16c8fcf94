package ui

import (
	"context"
	"log"
	"time"

	"FlipCards/internal/export"
	"FlipCards/internal/session"
	"FlipCards/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const importTimeout = 15 * time.Second

// Options configure the application window.
type Options struct {
	// ShareLink returns the link of the open project; nil disables sharing.
	ShareLink func() string
	// Library backs the library window; nil hides it.
	Library Library
	// Import fetches a shared deck into the library.
	Import ImportFunc
	// OnOpen switches the editor to another project.
	OnOpen func(p *state.Project)
	// OnClose runs once the window is closed, before RunApp returns.
	OnClose func()
}

func windowTitle(e *session.Editor) string {
	_, name := e.ProjectInfo()
	if name == "" {
		return "FlipCards"
	}
	return "FlipCards - " + name
}

// RunApp shows the editor window and blocks until it is closed.
func RunApp(e *session.Editor, opts Options) {
	myApp := app.New()
	myWindow := myApp.NewWindow(windowTitle(e))
	myWindow.Resize(fyne.NewSize(1024, 768))

	card := NewCardWidget(e)
	var stopPlay context.CancelFunc

	actions := Actions{
		Export: func() { showExport(myWindow, e) },
		Play: func() {
			if stopPlay != nil {
				stopPlay()
				stopPlay = nil
				card.StopPreview()
				return
			}
			ctx, cancel := context.WithCancel(context.Background())
			stopPlay = cancel
			player := session.NewPlayer(e, session.DefaultFrameInterval)
			player.OnFrame = func(f session.Frame) {
				fyne.Do(func() { card.ShowFrame(f) })
			}
			go player.Run(ctx)
		},
	}
	actions.Cards = func() { showCardPicker(myWindow, e) }
	if opts.ShareLink != nil {
		actions.Share = func() { showShareLink(myWindow, opts.ShareLink()) }
	}
	if opts.Library != nil && opts.OnOpen != nil {
		open := func(p *state.Project) {
			if stopPlay != nil {
				stopPlay()
				stopPlay = nil
				card.StopPreview()
			}
			opts.OnOpen(p)
			myWindow.SetTitle(windowTitle(e))
		}
		library := newLibraryView(opts.Library, e, open)
		actions.Library = func() { showLibrary(myWindow, library, opts.Import) }
	}
	toolbar := NewToolbar(e, actions)

	prev := e.OnChange
	e.OnChange = func() {
		if prev != nil {
			prev()
		}
		card.Refresh()
		toolbar.Update()
	}

	myWindow.Canvas().SetOnTypedKey(func(k *fyne.KeyEvent) {
		if k.Name == fyne.KeyEscape {
			e.Cancel()
		}
	})

	content := container.NewBorder(toolbar.Content(), nil, nil, nil, container.NewPadded(card))
	myWindow.SetContent(content)
	myWindow.ShowAndRun()

	if stopPlay != nil {
		stopPlay()
	}
	if opts.OnClose != nil {
		opts.OnClose()
	}
}

func showExport(w fyne.Window, e *session.Editor) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				log.Printf("[UI] Error closing export: %v", err)
			}
		}()

		var exportErr error
		e.WithProject(func(p *state.Project) {
			exportErr = export.WritePDF(writer, p)
		})
		if exportErr != nil {
			log.Printf("[UI] Export failed: %v", exportErr)
			dialog.ShowError(exportErr, w)
			return
		}
		log.Printf("[UI] Exported to %s", writer.URI())
	}, w)
	d.SetFileName("cards.pdf")
	d.Show()
}

func showShareLink(w fyne.Window, link string) {
	entry := widget.NewEntry()
	entry.SetText(link)
	copyButton := widget.NewButton("Copy", func() {
		fyne.CurrentApp().Clipboard().SetContent(link)
	})
	dialog.ShowCustom("Share deck", "Close", container.NewBorder(nil, nil, nil, copyButton, entry), w)
}
