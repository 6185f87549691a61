// Package components defines the example app's UI as strand components.
package components

import (
	"fmt"

	"github.com/strandhtml/strand"
)

// Signals is the client-side state for the todo page.
type Signals struct {
	NewTodo string
	Filter  string
}

// Registry maps Signals fields to their wire names (newTodo, filter).
var Registry = strand.MustSignals[Signals]()

// Todo is one stored todo.
type Todo struct {
	ID    string
	Title string
	Done  bool
}

// TodoItem renders one todo row.
type TodoItem struct {
	Elem strand.Elem `elem:"li" attr:"id=todo-{ID},class=todo-item"`

	ID     string
	Title  string `elem:"span"`
	Done   bool   `attr:"data-done"`
	Toggle string `attr:"data-on-click"`
	Remove string `attr:"data-on-dblclick"`
}

// NewTodoItem builds the row with its actions wired to the server.
func NewTodoItem(t Todo) TodoItem {
	return TodoItem{
		ID:     t.ID,
		Title:  t.Title,
		Done:   t.Done,
		Toggle: strand.Post("/todos/" + t.ID + "/toggle").Expr(),
		Remove: strand.Delete("/todos/" + t.ID).Expr(),
	}
}

// TodoList renders the list section with a count footer.
type TodoList struct {
	Elem strand.Elem `elem:"section" attr:"id=todos"`

	Items []TodoItem `elem:"ul" attr:"id=todo-items"`
	Count string     `elem:"footer" attr:"id=todo-count"`
}

// NewTodoList builds the list for the given todos.
func NewTodoList(todos []Todo) TodoList {
	list := TodoList{Count: fmt.Sprintf("%d items", len(todos))}
	for _, t := range todos {
		list.Items = append(list.Items, NewTodoItem(t))
	}
	return list
}

// AddTodo renders the entry form. Submit posts the bound signals and the
// server answers with patches.
type AddTodo struct {
	Elem strand.Elem `elem:"form" attr:"id=add-todo,data-on-submit={Submit}"`

	Input  addInput  `elem:""`
	Button addButton `elem:""`
}

type addInput struct {
	Elem strand.Elem `elem:"input" attr:"type=text,data-bind-new-todo,placeholder=What needs doing?"`
}

type addButton struct {
	Elem strand.Elem `elem:"button" attr:"type=submit"`

	Label string `elem:""`
}

// Submit is referenced from the form's data-on-submit template.
func (AddTodo) Submit() string {
	return strand.Post("/todos").Expr()
}

// NewAddTodo builds the entry form.
func NewAddTodo() AddTodo {
	return AddTodo{Button: addButton{Label: "Add"}}
}
