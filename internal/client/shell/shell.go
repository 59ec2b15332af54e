// Package shell is the interactive terminal front end of the client. Every
// command runs one client flow against the store; views subscribed to the
// store print what changed.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/atinyakov/frus/internal/client/creator"
	"github.com/atinyakov/frus/internal/client/store"
	"github.com/atinyakov/frus/internal/client/validate"
	"github.com/atinyakov/frus/internal/client/view"
	"github.com/atinyakov/frus/internal/models"
)

// LineReader reads commands and secrets. *readline.Instance implements it.
type LineReader interface {
	Readline() (string, error)
	ReadPassword(prompt string) ([]byte, error)
	SetPrompt(prompt string)
}

const helpText = `Available commands:
  help                              show this help
  login <email>                     log in (asks for the password)
  register <first> <last> <email>   create an account (asks for the password twice)
  logout                            log out
  shorten <url> [vanity]            shorten a URL
  visit <code>                      resolve a short code
  home                              show popular, recent and influential panels
  status                            show who is logged in
  exit                              leave the shell`

// Shell binds a store and its flows to a terminal.
type Shell struct {
	st  *store.Store
	c   *creator.Creators
	in  LineReader
	out io.Writer
}

// New returns a shell reading from in and writing to out.
func New(st *store.Store, c *creator.Creators, in LineReader, out io.Writer) *Shell {
	return &Shell{st: st, c: c, in: in, out: out}
}

// Run reads commands until exit or end of input. The views stay subscribed
// for the duration of Run.
func (s *Shell) Run(ctx context.Context) error {
	for _, unsubscribe := range s.connect() {
		defer unsubscribe()
	}

	s.in.SetPrompt(s.prompt())
	for {
		line, err := s.in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(s.out, "Use 'exit' to leave the shell.")
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}

		if s.Exec(ctx, line) {
			fmt.Fprintln(s.out, "Bye")
			return nil
		}
		s.in.SetPrompt(s.prompt())
	}
}

func (s *Shell) prompt() string {
	if name := s.st.GetState().Auth.UserName; name != "" {
		return "frus(" + name + ")> "
	}
	return "frus> "
}

// connect subscribes the views that print on change. Their first render,
// on subscribe, prints nothing for a fresh state.
func (s *Shell) connect() []func() {
	return []func(){
		view.Connect(s.st, view.SelectAuth, func(m view.AuthModel) { view.RenderAuth(s.out, m) }),
		view.Connect(s.st, view.SelectShorten, func(m view.ShortenModel) { view.RenderShorten(s.out, m) }),
		view.Connect(s.st, view.SelectVisit, func(vd models.VisitDetails) { view.RenderVisit(s.out, vd) }),
	}
}

// Exec runs one command line and reports whether the shell should exit.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}

	var err error
	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "login":
		err = s.login(ctx, args[1:])
	case "register":
		err = s.register(ctx, args[1:])
	case "logout":
		err = s.st.Run(ctx, s.c.LogoutAndRedirect())
	case "shorten":
		err = s.shorten(ctx, args[1:])
	case "visit":
		code := ""
		if len(args) > 1 {
			code = args[1]
		}
		err = s.st.Run(ctx, s.c.GetRouteToRedirect(code))
	case "home":
		err = s.home(ctx)
	case "status":
		view.RenderAuth(s.out, view.SelectAuth(s.st.GetState()))
		if !s.st.GetState().Auth.IsAuthenticated {
			fmt.Fprintln(s.out, "Not logged in")
		}
	case "exit", "quit":
		return true
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}

	if err != nil {
		fmt.Fprintln(s.out, "Error:", err)
	}
	return false
}

func (s *Shell) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: login <email>")
		return nil
	}
	password, err := s.password("Password: ")
	if err != nil {
		return err
	}
	return s.st.Run(ctx, s.c.LoginUser(args[0], password))
}

func (s *Shell) register(ctx context.Context, args []string) error {
	if len(args) != 3 {
		fmt.Fprintln(s.out, "Usage: register <first> <last> <email>")
		return nil
	}
	password, err := s.password("Password: ")
	if err != nil {
		return err
	}
	confirm, err := s.password("Confirm password: ")
	if err != nil {
		return err
	}
	return s.st.Run(ctx, s.c.RegisterUser(validate.RegisterForm{
		FirstName:       args[0],
		LastName:        args[1],
		Email:           args[2],
		Password:        password,
		ConfirmPassword: confirm,
	}))
}

func (s *Shell) shorten(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(s.out, "Usage: shorten <url> [vanity]")
		return nil
	}
	vanity := ""
	if len(args) == 2 {
		vanity = args[1]
	}
	return s.st.Run(ctx, s.c.ShortenURL(args[0], vanity))
}

func (s *Shell) home(ctx context.Context) error {
	err := s.st.Run(ctx, s.c.LoadHomePage())
	view.RenderHome(s.out, view.SelectHome(s.st.GetState()))
	return err
}

func (s *Shell) password(prompt string) (string, error) {
	b, err := s.in.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
