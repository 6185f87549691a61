package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/strandhtml/strand"
	"github.com/strandhtml/strand/example/components"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	store := NewStore()
	app := &app{store: store, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", app.handleIndex)
	r.Post("/todos", app.handleAdd)
	r.Post("/todos/{id}/toggle", app.handleToggle)
	r.Delete("/todos/{id}", app.handleRemove)

	addr := ":8080"
	log.Info().Str("addr", addr).Msg("starting")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

type app struct {
	store *Store
	log   zerolog.Logger
}

func (a *app) handleIndex(w http.ResponseWriter, r *http.Request) {
	snapshot, err := components.Registry.Snapshot(components.Signals{})
	if err != nil {
		a.fail(w, err)
		return
	}

	doc := strand.NewDocument("Todos").
		Script("https://cdn.jsdelivr.net/gh/starfederation/datastar@latest/bundles/datastar.js").
		Signals(snapshot).
		Append(
			components.NewAddTodo(),
			components.NewTodoList(a.store.All()),
		)

	html, err := doc.Render(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

func (a *app) handleAdd(w http.ResponseWriter, r *http.Request) {
	sig, err := components.Registry.Read(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if sig.NewTodo == "" {
		http.Error(w, "empty todo", http.StatusUnprocessableEntity)
		return
	}

	todo := a.store.Add(sig.NewTodo)
	item, err := strand.Render(r.Context(), components.NewTodoItem(todo))
	if err != nil {
		a.fail(w, err)
		return
	}
	footer, err := strand.Render(r.Context(), countFooter(a.store.Len()))
	if err != nil {
		a.fail(w, err)
		return
	}

	stream, err := strand.NewStream(w, r)
	if err != nil {
		a.fail(w, err)
		return
	}
	err = stream.Patch(
		strand.ElementPatch(item).Selector("#todo-items").Mode(strand.ModeAppend),
		strand.ElementPatch(footer),
		strand.SignalPatch(strand.MustPair("newTodo", "")),
	)
	if err != nil {
		a.log.Warn().Err(err).Msg("client went away mid-patch")
	}
}

func (a *app) handleToggle(w http.ResponseWriter, r *http.Request) {
	todo, ok := a.store.Toggle(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	item, err := strand.Render(r.Context(), components.NewTodoItem(todo))
	if err != nil {
		a.fail(w, err)
		return
	}
	stream, err := strand.NewStream(w, r)
	if err != nil {
		a.fail(w, err)
		return
	}
	if err := stream.Patch(strand.ElementPatch(item)); err != nil {
		a.log.Warn().Err(err).Msg("client went away mid-patch")
	}
}

func (a *app) handleRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !a.store.Remove(id) {
		http.NotFound(w, r)
		return
	}

	footer, err := strand.Render(r.Context(), countFooter(a.store.Len()))
	if err != nil {
		a.fail(w, err)
		return
	}
	stream, err := strand.NewStream(w, r)
	if err != nil {
		a.fail(w, err)
		return
	}
	err = stream.Patch(
		strand.ElementPatch().Selector("#todo-"+id).Mode(strand.ModeRemove),
		strand.ElementPatch(footer),
	)
	if err != nil {
		a.log.Warn().Err(err).Msg("client went away mid-patch")
	}
}

func (a *app) fail(w http.ResponseWriter, err error) {
	a.log.Error().Err(err).Msg("render failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

type footerCount struct {
	Elem strand.Elem `elem:"footer" attr:"id=todo-count" format:"{Count} items"`

	Count int
}

func countFooter(n int) footerCount {
	return footerCount{Count: n}
}
