package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/chrisdamba/foodswipe/internal/events"
	"github.com/chrisdamba/foodswipe/internal/geo"
	"github.com/chrisdamba/foodswipe/internal/gesture"
	"github.com/chrisdamba/foodswipe/internal/models"
	"github.com/chrisdamba/foodswipe/internal/recommend"
	"github.com/chrisdamba/foodswipe/internal/session"
	"github.com/chrisdamba/foodswipe/internal/store"
)

var swipeCmd = &cobra.Command{
	Use:   "swipe",
	Short: "Start an interactive swiping session",
	RunE:  runSwipe,
}

func init() {
	rootCmd.AddCommand(swipeCmd)
}

func runSwipe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	name := cfg.Username
	for strings.TrimSpace(name) == "" {
		fmt.Fprint(out, "What should we call you? ")
		if !in.Scan() {
			return in.Err()
		}
		name = in.Text()
	}
	id, err := session.Login(name)
	if err != nil {
		return err
	}

	sess, closeFn, err := openSession(ctx, cfg, id)
	if err != nil {
		return err
	}
	defer closeFn()

	r := &repl{sess: sess, in: in, out: out, spin: true}
	return r.run(ctx)
}

// openSession wires the store, gateway and analytics for one identity.
func openSession(ctx context.Context, cfg *models.Config, id session.Identity) (*session.Session, func(), error) {
	gateway := recommend.New(ctx, cfg)

	output, err := events.NewOutput(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	recorder := events.NewRecorder(output, cfg.KafkaTopic, id.ID, id.Name)

	loc := geo.Resolve(ctx, geo.FromConfig(cfg))
	sess := session.New(id, store.New(cfg.LowWaterMark), gateway, recorder, loc)

	return sess, func() {
		sess.Close()
		_ = recorder.Close()
	}, nil
}

const helpText = `Swipe the top card:
  h / a / left    skip
  l / d / right   open details
  k / w / up      not for me (excludes its lead tags)
  j / s / down    save to menu
  drag <dx> <dy>  swipe by offset
Other commands:
  menu            show saved dishes
  rm <id>         remove a saved dish
  taboos <text>   set dietary taboos (empty to clear)
  prefs           show current preferences
  refresh         fetch more dishes
  help, quit
`

type repl struct {
	sess *session.Session
	in   *bufio.Scanner
	out  io.Writer
	spin bool
}

func (r *repl) run(ctx context.Context) error {
	fmt.Fprintf(r.out, "Hi %s! Type help for commands.\n", r.sess.Name)
	r.sess.Refill(ctx)
	r.showCard()

	for {
		fmt.Fprint(r.out, "> ")
		if !r.in.Scan() {
			return r.in.Err()
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		if quit := r.handle(ctx, line); quit {
			return nil
		}
	}
}

func (r *repl) handle(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	if dir, ok := gesture.ParseKey(cmd); ok {
		r.swipe(dir)
		return false
	}

	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		fmt.Fprintln(r.out, "Bye!")
		return true
	case "help", "?":
		fmt.Fprint(r.out, helpText)
	case "drag":
		r.drag(arg)
	case "menu":
		r.showMenu()
	case "rm":
		if r.sess.RemoveFromMenu(arg) {
			fmt.Fprintf(r.out, "Removed %s from your menu.\n", arg)
		} else {
			fmt.Fprintf(r.out, "Nothing saved with id %q.\n", arg)
		}
	case "taboos":
		r.sess.SetTaboos(arg)
		fmt.Fprintln(r.out, "Taboos updated, dealing a fresh deck.")
		r.showCard()
	case "prefs":
		p := r.sess.Preferences()
		fmt.Fprintf(r.out, "Taboos: %s\nExcluded tags: %s\n", orNone(p.Taboos), orNone(strings.Join(p.DislikedTags, ", ")))
	case "refresh":
		n := r.withSpinner("Finding dishes", func() int { return r.sess.Refresh(ctx) })
		fmt.Fprintf(r.out, "Added %d dishes.\n", n)
		r.showCard()
	default:
		fmt.Fprintf(r.out, "Unknown command %q. Type help.\n", cmd)
	}
	return false
}

func (r *repl) drag(arg string) {
	fields := strings.Fields(arg)
	if len(fields) != 2 {
		fmt.Fprintln(r.out, "usage: drag <dx> <dy>")
		return
	}
	dx, errX := strconv.ParseFloat(fields[0], 64)
	dy, errY := strconv.ParseFloat(fields[1], 64)
	if errX != nil || errY != nil {
		fmt.Fprintln(r.out, "usage: drag <dx> <dy>")
		return
	}
	dir := gesture.Classify(dx, dy)
	if dir == models.SwipeNone {
		fmt.Fprintln(r.out, "The card springs back.")
		return
	}
	r.swipe(dir)
}

func (r *repl) swipe(dir models.SwipeDirection) {
	outcome, err := r.sess.Swipe(dir)
	if err != nil {
		fmt.Fprintf(r.out, "Can't swipe: %v\n", err)
		return
	}

	switch dir {
	case models.SwipeLeft:
		fmt.Fprintf(r.out, "Skipped %s.\n", outcome.Item.Name)
	case models.SwipeDown:
		fmt.Fprintf(r.out, "Saved %s to your menu.\n", outcome.Item.Name)
	case models.SwipeUp:
		fmt.Fprintf(r.out, "Fewer dishes like %s from now on.\n", outcome.Item.Name)
	case models.SwipeRight:
		r.showDetail(*outcome.Detail)
		return
	}
	r.showCard()
}

func (r *repl) showCard() {
	item, ok := r.sess.Current()
	if !ok {
		// a refill may have been started by the last action
		r.withSpinner("Finding dishes", func() int { r.sess.Wait(); return 0 })
		item, ok = r.sess.Current()
	}
	if !ok {
		fmt.Fprintln(r.out, "No more cards. Type refresh for more.")
		return
	}
	fmt.Fprintf(r.out, "\n%s  (%d kcal)\n%s\n", item.Name, item.Calories, item.Description)
	if item.RestaurantName != "" {
		fmt.Fprintf(r.out, "@ %s\n", item.RestaurantName)
	}
	if len(item.Tags) > 0 {
		fmt.Fprintf(r.out, "#%s\n", strings.Join(item.Tags, " #"))
	}
}

func (r *repl) showDetail(d models.Detail) {
	fmt.Fprintf(r.out, "\n== %s ==\n%s\n\n%s\n%d kcal\n%s\n", d.Name, d.RestaurantName, d.Description, d.Calories, d.Address)
	if len(d.Tags) > 0 {
		fmt.Fprintf(r.out, "#%s\n", strings.Join(d.Tags, " #"))
	}
	fmt.Fprintln(r.out, "(the card is still on top)")
}

func (r *repl) showMenu() {
	menu := r.sess.Menu()
	if len(menu) == 0 {
		fmt.Fprintln(r.out, "Your menu is empty. Swipe down to save dishes.")
		return
	}
	for _, it := range menu {
		fmt.Fprintf(r.out, "  [%s] %s - %d kcal\n", it.ID, it.Name, it.Calories)
	}
	fmt.Fprintf(r.out, "Total Calories: %d\n", r.sess.MenuCalories())
}

// withSpinner runs fn while an indeterminate progress bar spins on stderr.
func (r *repl) withSpinner(desc string, fn func() int) int {
	if !r.spin {
		return fn()
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan int, 1)
	go func() { done <- fn() }()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case n := <-done:
			_ = bar.Finish()
			return n
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
