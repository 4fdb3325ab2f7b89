package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/psmak4/reprint-ui/internal/auth"
	"github.com/psmak4/reprint-ui/internal/book"
	"github.com/psmak4/reprint-ui/internal/catalog"
	"github.com/psmak4/reprint-ui/internal/entity"
	"github.com/psmak4/reprint-ui/internal/gateway"
	"github.com/psmak4/reprint-ui/internal/httpx"
	"github.com/psmak4/reprint-ui/internal/mutation"
	"github.com/psmak4/reprint-ui/internal/review"
	"github.com/psmak4/reprint-ui/internal/session"
	"github.com/psmak4/reprint-ui/internal/shelf"
	"github.com/psmak4/reprint-ui/internal/store"
)

const usage = `reprint is the terminal client for the reprint book service.

Usage: reprint <command> [flags]

Commands:
  login      -token <jwt>                     store a session token
  logout                                      drop the session and cache
  whoami                                      show the signed-in identity
  search     -q <text> [-limit n] [-offset n] search the catalog
  book       -work <key> [-edition id] [-reveal id,...]
  author     -key <author key>
  trending   [-period day|week|month]
  shelf      list [-status s] [-sort f] [-order asc|desc]
  shelf      add|set -work <key> -status <s>
  shelf      remove -work <key>
  reviews    list
  reviews    submit -work <key> -rating n -content <text> [-spoiler]
  reviews    delete -work <key>
  admin      queue [-status s] [-limit n] [-offset n]
  admin      approve|reject -id <review id>
  admin      stats

Environment:
  REPRINT_API_URL      service base URL (default http://localhost:8080)
  REPRINT_TOKEN_FILE   token location (default ~/.reprint/token.json)
  REPRINT_LOG          log level: debug, info, warn, error (default warn)
  REPRINT_CACHE_STATS  set to dump cache counters after the command
`

type app struct {
	sessions *session.Manager
	catalogs *catalog.Service
	books    *book.Service
	shelves  *shelf.Service
	reviews  *review.Service
	coord    *mutation.Coordinator
	store    *store.Store
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "reprint: %s\n", renderError(err))
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load(".env.local")

	logger := newLogger(getEnv("REPRINT_LOG", "warn"))
	slog.SetDefault(logger)

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Print(usage)
		return nil
	}

	tokenPath := getEnv("REPRINT_TOKEN_FILE", "")
	if tokenPath == "" {
		p, err := auth.DefaultTokenPath()
		if err != nil {
			return err
		}
		tokenPath = p
	}
	tokens := auth.NewFileStore(tokenPath)

	st := store.New(store.WithLogger(logger))

	// The auth middleware attaches the stored token; the gateway reports
	// 401-class failures back into the session manager, which drops
	// every user-scoped cache entry before the error surfaces.
	var sessions *session.Manager
	transport := httpx.Chain(nil,
		httpx.RequestIDMiddleware(),
		httpx.AccessLogMiddleware(logger),
		httpx.AuthMiddleware(tokens),
	)
	client := gateway.NewClient(gateway.Config{
		BaseURL:   getEnv("REPRINT_API_URL", "http://localhost:8080"),
		Transport: transport,
		Logger:    logger,
		OnAuthFailure: func() {
			if sessions != nil {
				sessions.HandleAuthFailure()
			}
		},
	})

	shelves := shelf.NewService(st, client)
	reviews := review.NewService(st, client)
	sessions = session.NewManager(st, tokens, shelves, logger)

	a := &app{
		sessions: sessions,
		catalogs: catalog.NewService(st, client),
		books:    book.NewService(st, client, shelves),
		shelves:  shelves,
		reviews:  reviews,
		coord:    mutation.NewCoordinator(st, client, shelves, reviews, logger),
		store:    st,
	}

	ctx := context.Background()
	if args[0] != "login" {
		a.sessions.Resume(ctx)
	}

	err := a.dispatch(ctx, args[0], args[1:])
	if os.Getenv("REPRINT_CACHE_STATS") != "" {
		printCacheStats(a.store.Stats())
	}
	return err
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.sessions.SignOut(ctx)
	case "whoami":
		return a.cmdWhoami()
	case "search":
		return a.cmdSearch(ctx, args)
	case "book":
		return a.cmdBook(ctx, args)
	case "author":
		return a.cmdAuthor(ctx, args)
	case "trending":
		return a.cmdTrending(ctx, args)
	case "shelf":
		return a.cmdShelf(ctx, args)
	case "reviews":
		return a.cmdReviews(ctx, args)
	case "admin":
		return a.cmdAdmin(ctx, args)
	default:
		return fmt.Errorf("unknown command %q, see 'reprint help'", command)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	token := fs.String("token", "", "session token issued by the service")
	fs.Parse(args)

	if *token == "" {
		return errors.New("login needs -token")
	}
	id, err := a.sessions.SignIn(ctx, *token)
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", id.UserID, id.Role)
	if !id.ExpiresAt.IsZero() {
		fmt.Printf("token expires %s\n", id.ExpiresAt.Local())
	}
	return nil
}

func (a *app) cmdWhoami() error {
	id, ok := a.sessions.Identity()
	if !ok {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s (%s)\n", id.UserID, id.Role)
	return nil
}

func (a *app) cmdSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	q := fs.String("q", "", "search text")
	limit := fs.Int("limit", 20, "page size")
	offset := fs.Int("offset", 0, "page start")
	fs.Parse(args)

	if *q == "" {
		return errors.New("search needs -q")
	}
	res, err := a.catalogs.Search(ctx, gateway.SearchQuery{Text: *q, Limit: *limit, Offset: *offset})
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "WORK\tTITLE\tAUTHORS")
	for _, b := range res.Books {
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.WorkKey, b.Title, authorNames(b))
	}
	w.Flush()
	fmt.Printf("%d-%d of %d\n", *offset+1, *offset+len(res.Books), res.Total)
	return nil
}

func (a *app) cmdBook(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	work := fs.String("work", "", "work key, e.g. /works/OL45883W")
	edition := fs.String("edition", "", "edition id")
	reveal := fs.String("reveal", "", "review ids whose spoilers to reveal, comma separated")
	fs.Parse(args)

	if *work == "" {
		return errors.New("book needs -work")
	}

	// Revealed spoilers live only for this render and reset next run.
	revealed := review.NewRevealSet()
	for _, id := range strings.Split(*reveal, ",") {
		if id = strings.TrimSpace(id); id != "" {
			revealed.Reveal(id)
		}
	}

	viewerID := ""
	if id, ok := a.sessions.Identity(); ok {
		viewerID = id.UserID
	}
	page, err := a.books.Page(ctx, viewerID, *work, *edition, revealed)
	if err != nil {
		return err
	}
	renderBookPage(page)
	return nil
}

func (a *app) cmdAuthor(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("author", flag.ExitOnError)
	key := fs.String("key", "", "author key, e.g. /authors/OL23919A")
	fs.Parse(args)

	if *key == "" {
		return errors.New("author needs -key")
	}
	author, err := a.catalogs.Author(ctx, *key)
	if err != nil {
		return err
	}
	fmt.Println(author.Name)
	if author.Bio != "" {
		fmt.Println(author.Bio)
	}
	return nil
}

func (a *app) cmdTrending(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("trending", flag.ExitOnError)
	period := fs.String("period", catalog.PeriodWeek, "day, week or month")
	fs.Parse(args)

	books, err := a.catalogs.Trending(ctx, *period)
	if err != nil {
		return err
	}
	w := newTable()
	fmt.Fprintln(w, "WORK\tTITLE\tREADERS")
	for _, tb := range books {
		fmt.Fprintf(w, "%s\t%s\t%d\n", tb.Book.WorkKey, tb.Book.Title, tb.Count)
	}
	w.Flush()
	return nil
}

func (a *app) cmdShelf(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("shelf needs a subcommand: list, add, set, remove")
	}
	id, ok := a.sessions.Identity()
	if !ok {
		return errNotSignedIn
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		fs := flag.NewFlagSet("shelf list", flag.ExitOnError)
		status := fs.String("status", "", "filter: want_to_read, reading, read")
		sort := fs.String("sort", "", "sort field: created_at, updated_at, title")
		order := fs.String("order", "", "asc or desc")
		fs.Parse(rest)

		items, err := a.shelves.List(ctx, id.UserID, gateway.LibraryQuery{Status: *status, Sort: *sort, Order: *order})
		if err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "WORK\tSTATUS\tTITLE")
		for _, it := range items {
			title := ""
			if it.Book != nil {
				title = it.Book.Title
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", it.WorkKey, it.Status, title)
		}
		w.Flush()
		return nil

	case "add", "set":
		fs := flag.NewFlagSet("shelf "+sub, flag.ExitOnError)
		work := fs.String("work", "", "work key")
		status := fs.String("status", "", "want_to_read, reading or read")
		fs.Parse(rest)

		if sub == "add" {
			added, err := a.coord.AddToShelf(ctx, id.UserID, *work, *status)
			if err != nil {
				return err
			}
			fmt.Printf("added %s as %s\n", added.WorkKey, added.Status)
			return nil
		}
		moved, err := a.coord.SetShelfStatus(ctx, id.UserID, *work, *status)
		if err != nil {
			return err
		}
		fmt.Printf("moved %s to %s\n", moved.WorkKey, moved.Status)
		return nil

	case "remove":
		fs := flag.NewFlagSet("shelf remove", flag.ExitOnError)
		work := fs.String("work", "", "work key")
		fs.Parse(rest)

		if err := a.coord.RemoveFromShelf(ctx, id.UserID, *work); err != nil {
			return err
		}
		fmt.Printf("removed %s\n", *work)
		return nil

	default:
		return fmt.Errorf("unknown shelf subcommand %q", sub)
	}
}

func (a *app) cmdReviews(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("reviews needs a subcommand: list, submit, delete")
	}
	id, ok := a.sessions.Identity()
	if !ok {
		return errNotSignedIn
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		own, err := a.reviews.Own(ctx, id.UserID)
		if err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "WORK\tRATING\tSTATUS\tCONTENT")
		for _, r := range own {
			status := r.Status
			if review.CanResubmit(r, id.UserID) {
				status += " (edit to resubmit)"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", r.WorkKey, r.Rating, status, truncate(r.Content, 60))
		}
		w.Flush()
		return nil

	case "submit":
		fs := flag.NewFlagSet("reviews submit", flag.ExitOnError)
		work := fs.String("work", "", "work key")
		ratingStars := fs.Int("rating", 0, "1 to 5")
		content := fs.String("content", "", "review text")
		spoiler := fs.Bool("spoiler", false, "mark the review as containing spoilers")
		fs.Parse(rest)

		saved, err := a.coord.SubmitReview(ctx, id.UserID, gateway.ReviewDraft{
			WorkKey: *work,
			Rating:  *ratingStars,
			Content: *content,
			Spoiler: *spoiler,
		})
		if err != nil {
			return err
		}
		fmt.Printf("review %s is %s\n", saved.ID, saved.Status)
		return nil

	case "delete":
		fs := flag.NewFlagSet("reviews delete", flag.ExitOnError)
		work := fs.String("work", "", "work key")
		fs.Parse(rest)

		r, found, err := a.reviews.OwnFor(ctx, id.UserID, *work)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no review of yours for %s", *work)
		}
		if err := a.coord.DeleteReview(ctx, id.UserID, r); err != nil {
			return err
		}
		fmt.Printf("deleted review of %s\n", *work)
		return nil

	default:
		return fmt.Errorf("unknown reviews subcommand %q", sub)
	}
}

func (a *app) cmdAdmin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("admin needs a subcommand: queue, approve, reject, stats")
	}
	id, ok := a.sessions.Identity()
	if !ok {
		return errNotSignedIn
	}
	if !id.Admin() {
		return errors.New("moderation needs an admin session")
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "queue":
		fs := flag.NewFlagSet("admin queue", flag.ExitOnError)
		status := fs.String("status", review.StatusPending, "pending, approved or rejected")
		limit := fs.Int("limit", 20, "page size")
		offset := fs.Int("offset", 0, "page start")
		fs.Parse(rest)

		page, err := a.reviews.Queue(ctx, gateway.ModerationQuery{Status: *status, Limit: *limit, Offset: *offset})
		if err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tWORK\tUSER\tRATING\tSTATUS\tCONTENT")
		for _, r := range page.Reviews {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n", r.ID, r.WorkKey, r.Username, r.Rating, r.Status, truncate(r.Content, 40))
		}
		w.Flush()
		fmt.Printf("%d total\n", page.Total)
		return nil

	case "approve", "reject":
		fs := flag.NewFlagSet("admin "+sub, flag.ExitOnError)
		reviewID := fs.String("id", "", "review id from 'admin queue'")
		fs.Parse(rest)

		r, err := a.findPending(ctx, *reviewID)
		if err != nil {
			return err
		}
		if sub == "approve" {
			moderated, err := a.coord.ApproveReview(ctx, r)
			if err != nil {
				return err
			}
			fmt.Printf("approved %s\n", moderated.ID)
			return nil
		}
		moderated, err := a.coord.RejectReview(ctx, r)
		if err != nil {
			return err
		}
		fmt.Printf("rejected %s\n", moderated.ID)
		return nil

	case "stats":
		stats, err := a.reviews.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("pending %d, approved %d, rejected %d, total %d\n",
			stats.Pending, stats.Approved, stats.Rejected, stats.Total)
		return nil

	default:
		return fmt.Errorf("unknown admin subcommand %q", sub)
	}
}

// queueScan bounds how deep a moderation lookup by id goes. Decisions
// past it need a narrower queue filter first.
const queueScan = 100

// findPending locates a queue row by id so the coordinator can guard the
// transition on the status we rendered.
func (a *app) findPending(ctx context.Context, reviewID string) (entity.Review, error) {
	if reviewID == "" {
		return entity.Review{}, errors.New("needs -id from 'admin queue'")
	}
	page, err := a.reviews.Queue(ctx, gateway.ModerationQuery{Status: review.StatusPending, Limit: queueScan})
	if err != nil {
		return entity.Review{}, err
	}
	for _, r := range page.Reviews {
		if r.ID == reviewID {
			return r, nil
		}
	}
	return entity.Review{}, fmt.Errorf("review %s is not in the first %d pending rows, check 'admin queue'", reviewID, queueScan)
}

var errNotSignedIn = errors.New("not signed in, run 'reprint login -token <jwt>'")

func renderBookPage(p book.Page) {
	fmt.Println(p.Book.Title)
	if names := authorNames(p.Book); names != "" {
		fmt.Printf("by %s\n", names)
	}
	if p.Shelved() {
		fmt.Printf("on your shelf: %s\n", p.ShelfStatus)
	}
	if p.Book.Description != "" {
		fmt.Printf("\n%s\n", p.Book.Description)
	}

	// The two rating signals stay side by side, never blended.
	fmt.Printf("\nreaders here: %s", p.Rating.Local.DisplayAverage())
	if p.Rating.Local.HasReviews() {
		fmt.Printf(" from %d reviews", p.Rating.Local.Count)
		for _, b := range p.Rating.Local.Breakdown {
			fmt.Printf("  %d★ %d%%", b.Star, b.Percent)
		}
	}
	fmt.Println()
	if ext := p.Rating.External; ext != nil {
		fmt.Printf("catalog average: %.1f from %d ratings\n", ext.Average, ext.Count)
	}

	if len(p.Reviews) > 0 {
		fmt.Println("\nreviews:")
		for _, v := range p.Reviews {
			marker := ""
			if v.Own {
				marker = fmt.Sprintf(" [%s, yours]", v.Status)
			}
			if v.Concealed {
				fmt.Printf("  %s rated %d★%s: (spoiler hidden, pass -reveal %s)\n", v.Username, v.Rating, marker, v.ID)
				continue
			}
			fmt.Printf("  %s rated %d★%s: %s\n", v.Username, v.Rating, marker, v.Content)
		}
	}
}

func authorNames(b entity.Book) string {
	return strings.Join(b.AuthorNames(), ", ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func printCacheStats(s store.Stats) {
	fmt.Fprintf(os.Stderr, "cache: %d hits, %d misses, %d fetches, %d superseded, %.0f%% hit rate\n",
		s.Hits, s.Misses, s.Fetches, s.Superseded, s.HitRate()*100)
}

func renderError(err error) string {
	var ge *gateway.Error
	if errors.As(err, &ge) {
		switch ge.Kind {
		case gateway.KindValidation:
			lines := []string{ge.Message}
			for _, d := range ge.Details {
				lines = append(lines, "  "+d.Field+": "+d.Message)
			}
			return strings.Join(lines, "\n")
		case gateway.KindAuth:
			return "session rejected, run 'reprint login -token <jwt>'"
		case gateway.KindNotFound:
			return "nothing found: " + ge.Message
		case gateway.KindNetwork:
			return "service unreachable, try again: " + ge.Message
		}
		return ge.Message
	}
	return err.Error()
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
