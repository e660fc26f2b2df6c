package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"github.com/sinder-app/sinder/swipe"
	"io"
	"strconv"
	"strings"
)

// SwipeDistance is the drag distance of the r and l shorthands.
const SwipeDistance = 150

var errQuit = errors.New("quit")

// Play runs the deck in a line based terminal loop. Each line is a horizontal
// drag distance, r or l for a full swipe, d to dismiss an error, p to print the
// profile or q to quit.
func Play(ctx context.Context, s *Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		top, ok := s.Sins().Top()
		if !ok {
			fmt.Fprintln(out, "No more sins to absolve.")
			return nil
		}
		renderCard(out, s, top.Id)
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if err := playLine(ctx, s, out, top.Id, strings.TrimSpace(scanner.Text())); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

func playLine(ctx context.Context, s *Session, out io.Writer, id uint64, line string) error {
	switch strings.ToLower(line) {
	case "":
		return nil
	case "q", "quit":
		return errQuit
	case "d":
		s.Dismiss()
		return nil
	case "p":
		renderProfile(out, s)
		return nil
	}
	dx, err := parseDrag(line)
	if err != nil {
		return err
	}
	card := swipe.NewCard(id)
	card.SetDisabled(s.Disabled())
	dir := card.Drag(dx)
	if dir == swipe.None {
		fmt.Fprintln(out, "(snapped back)")
		return nil
	}
	fmt.Fprintf(out, "%s %s\n", card.Indicator(), dir)
	return s.HandleSwipe(ctx, id, dir)
}

func parseDrag(line string) (float64, error) {
	switch strings.ToLower(line) {
	case "r", "right":
		return SwipeDistance, nil
	case "l", "left":
		return -SwipeDistance, nil
	}
	dx, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("not a drag distance: %q", line)
	}
	return dx, nil
}

func renderCard(out io.Writer, s *Session, id uint64) {
	item, ok := s.Sins().Find(id)
	if !ok {
		return
	}
	fmt.Fprintf(out, "\n#%d %s\n  %s\n  %s ETH", item.Id, item.Name, item.Description, item.PriceEth())
	if s.Absolved().Has(item.Id) {
		fmt.Fprint(out, " (absolved)")
	}
	fmt.Fprintln(out)
	if err := s.LastError(); err != nil {
		fmt.Fprintf(out, "  last transaction failed: %v (d to dismiss)\n", err)
	}
}

func renderProfile(out io.Writer, s *Session) {
	absolutions := s.Profile().Absolutions()
	if len(absolutions) == 0 {
		fmt.Fprintln(out, "No absolutions yet.")
		return
	}
	for _, a := range absolutions {
		fmt.Fprintf(out, "  #%d %s  %s ETH\n", a.SinId, a.SinName, a.PriceEth)
	}
}
