package ui

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/models"
	service "github.com/aaravmahajanofficial/qkart-storefront/internal/services"
)

const helpText = `Commands:
  search <text>   search products (runs once typing pauses)
  list            show the products view
  add <id>        add a product to the cart
  inc <id>        increase the quantity of a cart item
  dec <id>        decrease the quantity of a cart item
  cart            show the cart
  login           log in
  register        create an account
  logout          log out
  back            go to the previous view
  help            show this help
  quit            exit`

// Shell is the interactive storefront. Output from background work (search
// results, notifications) shares mu with the shell so lines never interleave.
type Shell struct {
	in       *bufio.Scanner
	out      io.Writer
	mu       *sync.Mutex
	router   *Router
	renderer *Renderer

	catalog  *service.CatalogService
	cart     *service.CartService
	users    *service.UserService
	sessions *service.SessionService
}

func NewShell(in io.Reader, out io.Writer, mu *sync.Mutex, catalog *service.CatalogService, cart *service.CartService, users *service.UserService, sessions *service.SessionService) *Shell {
	if mu == nil {
		mu = &sync.Mutex{}
	}

	s := &Shell{
		in:       bufio.NewScanner(in),
		out:      out,
		mu:       mu,
		router:   NewRouter(),
		renderer: NewRenderer(),
		catalog:  catalog,
		cart:     cart,
		users:    users,
		sessions: sessions,
	}

	// a reloaded catalog may change which cart entries can be shown
	catalog.OnCatalogChange(func() {
		_ = cart.Refresh(context.Background())
	})
	catalog.OnDisplayChange(func() {
		if s.router.Current() == PathProducts {
			s.write(func(w io.Writer) {
				s.renderer.Products(w, catalog.Displayed(), catalog.Loading())
			})
		}
	})

	return s
}

func (s *Shell) Router() *Router {
	return s.router
}

// Run restores the session, shows the catalog and then serves commands until
// quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {

	logger := middleware.LoggerFromContext(ctx)

	defer s.catalog.Close()

	if _, err := s.sessions.Load(ctx); err != nil {
		logger.Warn("Could not restore session", slog.String("error", err.Error()))
	}

	s.write(func(w io.Writer) {
		s.renderer.Header(w, s.router.Current(), s.sessions.Current())
	})
	_ = s.catalog.Load(ctx)
	s.renderCart()

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, ok := s.readLine("> ")
		if !ok {
			return s.in.Err()
		}

		if quit := s.Execute(ctx, line); quit {
			return nil
		}
	}
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {

	command, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case "":
	case "search":
		s.catalog.OnSearchInput(ctx, arg)
	case "list":
		s.renderView()
	case "add":
		if s.requireArg(command, arg) && s.cart.AddToCart(ctx, arg, 1, service.AddOptions{PreventDuplicate: true}) == nil {
			s.renderCart()
		}
	case "inc":
		if s.requireArg(command, arg) && s.cart.Increment(ctx, arg) == nil {
			s.renderCart()
		}
	case "dec":
		if s.requireArg(command, arg) && s.cart.Decrement(ctx, arg) == nil {
			s.renderCart()
		}
	case "cart":
		if !s.sessions.LoggedIn() {
			s.println(MsgCartNeedsLogin)
			break
		}
		s.renderCart()
	case "login":
		s.login(ctx)
	case "register":
		s.register(ctx)
	case "logout":
		if err := s.users.Logout(ctx); err == nil {
			s.router.Reset(PathProducts)
			s.renderView()
		}
	case "back":
		s.router.Back()
		s.renderView()
	case "help":
		s.println(helpText)
	case "quit", "exit":
		return true
	default:
		s.println(fmt.Sprintf("Unknown command %q, type help for the list of commands", command))
	}

	return false
}

func (s *Shell) login(ctx context.Context) {

	s.router.Navigate(PathLogin)
	s.renderView()

	username, ok := s.readLine("Username: ")
	if !ok {
		return
	}
	password, ok := s.readLine("Password: ")
	if !ok {
		return
	}

	if _, err := s.users.Login(ctx, &models.LoginRequest{Username: username, Password: password}); err != nil {
		return
	}

	s.router.Navigate(PathProducts)
	_ = s.cart.Fetch(ctx)
	s.renderView()
}

func (s *Shell) register(ctx context.Context) {

	s.router.Navigate(PathRegister)
	s.renderView()

	username, ok := s.readLine("Username: ")
	if !ok {
		return
	}
	password, ok := s.readLine("Password: ")
	if !ok {
		return
	}
	confirm, ok := s.readLine("Confirm Password: ")
	if !ok {
		return
	}

	err := s.users.Register(ctx, &models.RegisterRequest{
		Username:        username,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return
	}

	s.login(ctx)
}

func (s *Shell) renderView() {
	path := s.router.Current()
	session := s.sessions.Current()

	s.write(func(w io.Writer) {
		s.renderer.Header(w, path, session)

		switch path {
		case PathLogin:
			fmt.Fprintln(w, "Login")
		case PathRegister:
			fmt.Fprintln(w, "Register")
		default:
			s.renderer.Products(w, s.catalog.Displayed(), s.catalog.Loading())
			if session.Token != "" {
				s.renderer.Cart(w, s.cart.Cart())
			}
		}
	})
}

func (s *Shell) renderCart() {
	if !s.sessions.LoggedIn() {
		return
	}

	s.write(func(w io.Writer) {
		s.renderer.Cart(w, s.cart.Cart())
	})
}

func (s *Shell) requireArg(command, arg string) bool {
	if arg != "" {
		return true
	}

	s.println(fmt.Sprintf("Usage: %s <product id>", command))
	return false
}

func (s *Shell) readLine(prompt string) (string, bool) {
	s.write(func(w io.Writer) {
		fmt.Fprint(w, prompt)
	})

	if !s.in.Scan() {
		return "", false
	}

	return strings.TrimSpace(s.in.Text()), true
}

func (s *Shell) println(text string) {
	s.write(func(w io.Writer) {
		fmt.Fprintln(w, text)
	})
}

// write renders into a buffer first so a view is printed in one piece.
func (s *Shell) write(render func(w io.Writer)) {
	var buf bytes.Buffer
	render(&buf)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.out.Write(buf.Bytes())
}
