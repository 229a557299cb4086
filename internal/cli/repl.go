package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
// The real App satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Users(ctx context.Context) error
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	DeleteUser(ctx context.Context) error

	List(ctx context.Context) error
	Add(ctx context.Context) error
	Delete(ctx context.Context) error
	Update(ctx context.Context) error
	Stats(ctx context.Context) error
	Random(ctx context.Context) error
	Search(ctx context.Context) error
	Sorted(ctx context.Context) error
	Histogram(ctx context.Context) error
	Filter(ctx context.Context) error
	Website(ctx context.Context) error
	Publish(ctx context.Context) error
	Logout(ctx context.Context) error
}

// Numeric menu keys accepted in place of command names.
var (
	accountAliases = map[string]string{
		"1": "users",
		"2": "login",
		"3": "register",
		"4": "exit",
		"5": "deluser",
	}
	libraryAliases = map[string]string{
		"0":  "logout",
		"1":  "list",
		"2":  "add",
		"3":  "delete",
		"4":  "update",
		"5":  "stats",
		"6":  "random",
		"7":  "search",
		"8":  "sorted",
		"9":  "histogram",
		"10": "filter",
		"11": "website",
		"12": "publish",
	}
)

const (
	accountHelp = `Account menu:
  1. users     list registered users
  2. login     log in
  3. register  create a user
  4. exit      leave the program
  5. deluser   delete a user and their movies`

	libraryHelp = `Library menu:
  0. logout     log out
  1. list       list movies
  2. add        add a movie from OMDb
  3. delete     delete a movie
  4. update     update a movie
  5. stats      rating statistics
  6. random     random movie
  7. search     search by title
  8. sorted     movies sorted by rating
  9. histogram  save a rating histogram
  10. filter    filter by rating and years
  11. website   generate the gallery page
  12. publish   upload the gallery page
  exit          leave the program`
)

// runREPL reads commands line by line from reader and dispatches them to a.
// The same reader serves the prompts of the commands, so input is never
// buffered twice. The loop ends on EOF or "exit"/"quit".
//
// Errors returned by handlers are printed and the loop carries on; handlers
// report expected conditions (not found, duplicates) themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("movielib%s> ", prefixSpace(statusFn())))

		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) > 0 {
			if stop := dispatch(ctx, a, strings.ToLower(parts[0])); stop {
				return
			}
		}

		if readErr != nil {
			return
		}
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}

func resolve(loggedIn bool, cmd string) string {
	aliases := accountAliases
	if loggedIn {
		aliases = libraryAliases
	}
	if name, ok := aliases[cmd]; ok {
		return name
	}
	return cmd
}

func dispatch(ctx context.Context, a execIface, cmd string) (stop bool) {
	loggedIn := a.isLoggedIn()
	cmd = resolve(loggedIn, cmd)

	switch cmd {
	case "help", "?":
		if loggedIn {
			printlnFn(libraryHelp)
		} else {
			printlnFn(accountHelp)
		}
		return false
	case "exit", "quit":
		printlnFn("Bye!")
		return true
	}

	var handler func(context.Context) error
	if loggedIn {
		handler = libraryCommand(a, cmd)
	} else {
		handler = accountCommand(a, cmd)
	}

	if handler == nil {
		printlnFn("Unknown command:", cmd)
		return false
	}

	if err := handler(ctx); err != nil && !errors.Is(err, io.EOF) {
		printlnFn("Error:", err)
	}
	return false
}

func accountCommand(a execIface, cmd string) func(context.Context) error {
	switch cmd {
	case "users":
		return a.Users
	case "login":
		return a.Login
	case "register":
		return a.Register
	case "deluser":
		return a.DeleteUser
	}
	return nil
}

func libraryCommand(a execIface, cmd string) func(context.Context) error {
	switch cmd {
	case "list", "l":
		return a.List
	case "add":
		return a.Add
	case "delete":
		return a.Delete
	case "update":
		return a.Update
	case "stats":
		return a.Stats
	case "random":
		return a.Random
	case "search":
		return a.Search
	case "sorted":
		return a.Sorted
	case "histogram":
		return a.Histogram
	case "filter":
		return a.Filter
	case "website":
		return a.Website
	case "publish":
		return a.Publish
	case "logout":
		return a.Logout
	}
	return nil
}
