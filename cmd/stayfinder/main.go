// Command stayfinder is a small CLI over the StayFinder client,
// mostly useful for poking at an API instance during development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/vedant5125/stayfinder-go/internal/token"
	"github.com/vedant5125/stayfinder-go/pkg/stayfinder"
)

type config struct {
	BaseURL     string
	SessionFile string
	Verbose     bool
}

// stderrNotifier prints notifications the way the web app toasts them
type stderrNotifier struct{}

func (stderrNotifier) Success(msg string) { fmt.Fprintln(os.Stderr, "ok:", msg) }
func (stderrNotifier) Error(msg string)   { fmt.Fprintln(os.Stderr, "error:", msg) }

// stderrNavigator surfaces forced redirects as a hint to re-login
type stderrNavigator struct{}

func (stderrNavigator) Navigate(target string) {
	if target == stayfinder.RouteLogin {
		fmt.Fprintln(os.Stderr, "session expired, please run `stayfinder login` again")
	}
}

type verboseLogger struct{}

func (verboseLogger) Debug(msg string, kv ...interface{}) { log.Println("DEBUG", msg, kv) }
func (verboseLogger) Info(msg string, kv ...interface{})  { log.Println("INFO", msg, kv) }
func (verboseLogger) Warn(msg string, kv ...interface{})  { log.Println("WARN", msg, kv) }
func (verboseLogger) Error(msg string, kv ...interface{}) { log.Println("ERROR", msg, kv) }

func main() {
	cfg := parseFlags()

	client, err := newClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client.Session.Bootstrap(ctx)

	if err := run(ctx, client, flag.Args()); err != nil {
		log.Fatalf("Command failed: %v", err)
	}
}

func parseFlags() *config {
	cfg := &config{}

	envFile := flag.String("env", "", "Path to an env file (defaults to .env when present)")
	flag.StringVar(&cfg.BaseURL, "base-url", "", "API base URL (or STAYFINDER_BASE_URL)")
	flag.StringVar(&cfg.SessionFile, "session", "", "Token file path (default ~/.stayfinder/tokens.json)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatalf("Failed to load env file: %v", err)
		}
	} else {
		// Best-effort; a missing .env is fine.
		_ = godotenv.Load()
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("STAYFINDER_BASE_URL")
	}
	if cfg.SessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		cfg.SessionFile = filepath.Join(home, ".stayfinder", "tokens.json")
	}

	return cfg
}

func newClient(cfg *config) (*stayfinder.Client, error) {
	opts := &stayfinder.ClientOptions{
		BaseURL:     cfg.BaseURL,
		SessionFile: cfg.SessionFile,
		Notifier:    stderrNotifier{},
		Navigator:   stderrNavigator{},
		RateLimiter: stayfinder.NewRateLimiter(5, 10),
		SentryDSN:   os.Getenv("STAYFINDER_SENTRY_DSN"),
	}
	if cfg.Verbose {
		opts.Logger = verboseLogger{}
	}
	return stayfinder.NewClient(opts)
}

func run(ctx context.Context, client *stayfinder.Client, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: stayfinder [flags] <login|logout|whoami|listings|listing|bookings|wishlist|host-listings>")
	}

	switch args[0] {
	case "login":
		return login(ctx, client)
	case "logout":
		client.Session.Logout(ctx)
		return nil
	case "whoami":
		return whoami(client)
	case "listings":
		return listings(ctx, client)
	case "listing":
		if len(args) < 2 {
			return fmt.Errorf("usage: stayfinder listing <id>")
		}
		return listingDetails(ctx, client, args[1])
	case "bookings":
		return bookings(ctx, client)
	case "wishlist":
		return wishlist(ctx, client)
	case "host-listings":
		return hostListings(ctx, client)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func login(ctx context.Context, client *stayfinder.Client) error {
	role := stayfinder.Role(os.Getenv("STAYFINDER_ROLE"))
	if role == "" {
		role = stayfinder.RoleUser
	}

	_, err := client.Session.Login(ctx, &stayfinder.LoginParams{
		Email:    os.Getenv("STAYFINDER_EMAIL"),
		Phone:    os.Getenv("STAYFINDER_PHONE"),
		Password: os.Getenv("STAYFINDER_PASSWORD"),
		Role:     role,
	})
	return err
}

func whoami(client *stayfinder.Client) error {
	user := client.Session.User()
	if user == nil {
		fmt.Printf("state: %s\n", client.Session.State())
		return nil
	}

	fmt.Printf("state: %s\n", client.Session.State())
	fmt.Printf("id: %s\nname: %s\nemail: %s\nrole: %s\nwishlist: %d listings\n",
		user.ID, user.Fullname, user.Email, user.Role, len(user.WishList))

	if access := client.Tokens().Access(); access != "" {
		if exp, err := token.ExpiresAt(access); err == nil && !exp.IsZero() {
			fmt.Printf("access token expires: %s\n", exp.Format(time.RFC3339))
		}
	}
	return nil
}

func listings(ctx context.Context, client *stayfinder.Client) error {
	all, err := client.Listings.List(ctx)
	if err != nil {
		return err
	}
	for _, l := range all {
		fmt.Printf("%s  %-10s $%-6g %s, %s  %q\n", l.ID, l.Type, l.Price, l.Location.City, l.Location.Country, l.Title)
	}
	return nil
}

func listingDetails(ctx context.Context, client *stayfinder.Client, id string) error {
	l, err := client.Listings.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\n$%g per night, up to %d guests\n%s, %s, %s\n",
		l.Title, l.Description, l.Price, l.Guest, l.Location.Address, l.Location.City, l.Location.Country)

	dates, err := client.Bookings.BookedDates(ctx, id)
	if err != nil {
		return err
	}
	for _, d := range dates {
		fmt.Printf("booked: %s - %s\n", d.CheckIn.Format("2006-01-02"), d.CheckOut.Format("2006-01-02"))
	}
	return nil
}

func bookings(ctx context.Context, client *stayfinder.Client) error {
	all, err := client.Bookings.List(ctx)
	if err != nil {
		return err
	}
	for _, b := range all {
		fmt.Printf("%s  %s - %s  %d guests  $%g\n",
			b.Listing, b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"), b.Guests, b.TotalPrice)
	}
	return nil
}

func wishlist(ctx context.Context, client *stayfinder.Client) error {
	all, err := client.Wishlist.List(ctx)
	if err != nil {
		return err
	}
	for _, l := range all {
		fmt.Printf("%s  %q\n", l.ID, l.Title)
	}
	return nil
}

func hostListings(ctx context.Context, client *stayfinder.Client) error {
	guard := stayfinder.NewGuard(client.Session, stayfinder.RoleHost)
	if decision := guard.Check("/host/listings"); decision.Action != stayfinder.GuardRender {
		return fmt.Errorf("host role required (state: %s)", client.Session.State())
	}

	all, err := client.Host.Listings(ctx)
	if err != nil {
		return err
	}
	for _, l := range all {
		fmt.Printf("%s  $%-6g %q\n", l.ID, l.Price, l.Title)
	}
	return nil
}
