// Command albastini prints a deck of Albastini cards, ranks it, samples it
// and shuffles it. It is a manual smoke test of the card model.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"albastini/internal/shared"

	"github.com/pterm/pterm"
)

func main() {
	seed := flag.Uint64("seed", 0, "random seed (0 picks one from the clock)")
	plain := flag.Bool("plain", false, "disable colors")
	flag.Parse()

	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))

	if *plain {
		pterm.DisableStyling()
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	if err := run(os.Stdout, *seed); err != nil {
		logger.Error("demo failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(w io.Writer, seed uint64) error {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	deck := shared.NewDeck()
	pterm.Info.WithWriter(w).Printfln("The deck has %d cards.", deck.Len())

	if err := printCards(w, "All cards in the deck", deck.Cards()); err != nil {
		return err
	}

	aces, err := deck.Stride(8, 9)
	if err != nil {
		return err
	}
	if err := printCards(w, "All aces from the deck", aces); err != nil {
		return err
	}

	ranked := shared.Cards(deck.Cards())
	if err := shared.SortByOrder(ranked); err != nil {
		return err
	}
	if err := printCards(w, "Ranked deck", ranked); err != nil {
		return err
	}

	picks, err := shared.Sample(deck, 5, rng)
	if err != nil {
		return err
	}
	if err := printCards(w, "Five randomly selected cards", picks); err != nil {
		return err
	}

	deck.Shuffle(rng)
	if err := printCards(w, "Shuffled deck", deck.Cards()); err != nil {
		return err
	}

	deck.Shuffle(rng)
	if err := printCards(w, "Shuffled deck once more", deck.Cards()); err != nil {
		return err
	}

	pterm.Success.WithWriter(w).Printfln("Seed: %d", seed)
	return nil
}

func cardTable(cards []shared.Card) pterm.TableData {
	data := pterm.TableData{{"#", "Card", "Order", "Point", "Image"}}
	for i, c := range cards {
		data = append(data, []string{
			strconv.Itoa(i),
			suitColor(c).Sprint(c.String()),
			strconv.Itoa(c.RankOrder()),
			strconv.Itoa(c.RankPoint()),
			c.ImageName(),
		})
	}
	return data
}

func suitColor(c shared.Card) pterm.Color {
	switch c.Suit() {
	case shared.Hearts, shared.Diamonds:
		return pterm.FgLightRed
	}
	return pterm.FgDefault
}

func printCards(w io.Writer, title string, cards []shared.Card) error {
	pterm.DefaultSection.WithWriter(w).Println(title)
	table, err := pterm.DefaultTable.WithHasHeader().WithData(cardTable(cards)).Srender()
	if err != nil {
		return fmt.Errorf("render %q: %w", title, err)
	}
	pterm.Fprintln(w, table)
	return nil
}
